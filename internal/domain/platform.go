package domain

import "fmt"

// PlatformID identifies a destination social network.
type PlatformID string

const (
	PlatformTwitter   PlatformID = "twitter"
	PlatformInstagram PlatformID = "instagram"
	PlatformLinkedIn  PlatformID = "linkedin"
	PlatformYouTube   PlatformID = "youtube"
)

// Platform describes a destination network's submission constraints.
type Platform struct {
	ID   PlatformID
	Name string

	// CharLimit is the maximum post length enforced in previews and
	// derived-signal computation.
	CharLimit int

	// LiveIntegration is true when publishing performs a real provider
	// call. Simulated platforms report success without any network I/O.
	// Callers and tests must use this flag rather than timing to tell
	// the two apart.
	LiveIntegration bool
}

// Platforms is the set of known destinations.
var Platforms = map[PlatformID]Platform{
	PlatformTwitter:   {ID: PlatformTwitter, Name: "Twitter", CharLimit: 280},
	PlatformInstagram: {ID: PlatformInstagram, Name: "Instagram", CharLimit: 2200},
	PlatformLinkedIn:  {ID: PlatformLinkedIn, Name: "LinkedIn", CharLimit: 2200, LiveIntegration: true},
	PlatformYouTube:   {ID: PlatformYouTube, Name: "YouTube", CharLimit: 2200},
}

// LookupPlatform resolves a platform id, case-sensitively.
func LookupPlatform(id PlatformID) (Platform, error) {
	p, ok := Platforms[id]
	if !ok {
		return Platform{}, fmt.Errorf("unknown platform: %s", id)
	}
	return p, nil
}
