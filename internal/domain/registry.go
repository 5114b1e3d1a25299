package domain

import "context"

// Registry holds the adapter set and routes publish attempts to the adapter
// for a target platform.
type Registry struct {
	adapters map[PlatformID]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[PlatformID]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Platform().ID] = a
	}
	return &Registry{adapters: m}
}

// Adapter returns the adapter registered for a platform.
func (r *Registry) Adapter(id PlatformID) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// Dispatch routes one publish attempt. An unknown platform yields a
// precondition failure without any adapter call.
func (r *Registry) Dispatch(ctx context.Context, id PlatformID, v Variant, session *Session) Outcome {
	a, ok := r.adapters[id]
	if !ok {
		return Outcome{
			Platform: id,
			Err:      NewError(KindPreconditionNotMet, "no adapter registered for platform "+string(id), nil),
		}
	}
	return a.Publish(ctx, v, session)
}
