package odata

import "sync/atomic"

// BaseURL caches the externally reachable root of the service. The value is
// resolved on first use. Concurrent first calls may each run resolve; they
// produce the same string, so the race is harmless.
type BaseURL struct {
	resolve func() string
	value   atomic.Pointer[string]
}

func NewBaseURL(resolve func() string) *BaseURL {
	return &BaseURL{resolve: resolve}
}

func (b *BaseURL) String() string {
	if v := b.value.Load(); v != nil {
		return *v
	}

	u := b.resolve()
	b.value.Store(&u)
	return u
}

// Link returns the absolute URL of a collection.
func (b *BaseURL) Link(resourceID string) string {
	return b.String() + resourceID
}
