package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteDryRunStillRunsAssist(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		text:      "shipping the new release today",
		platforms: "twitter,instagram",
		mode:      "rewrite",
		dryRun:    true,
	}

	err := execute(context.Background(), opts, &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Running rewrite assist")
	assert.Contains(t, got, "Assisted text:\nshipping the new release today")
	assert.Contains(t, got, "twitter    ok (simulated)")
	assert.Contains(t, got, "instagram  ok (simulated)")
}

func TestExecuteRejectsUnknownPlatform(t *testing.T) {
	var out bytes.Buffer
	err := execute(context.Background(), options{text: "hi", platforms: "myspace", dryRun: true}, &out)
	require.Error(t, err)
}
