package odata

import "github.com/melkeydev/mcp-odata/types"

// Request is the datastore call for one collection request. Exactly one of
// RawSQL and Search is set.
type Request struct {
	RawSQL string
	Search *types.SearchRequest
}

func Build(loc Locator, opts Options) Request {
	if opts.RawSQL != "" {
		return Request{RawSQL: opts.RawSQL}
	}

	return Request{Search: &types.SearchRequest{
		ResourceID: loc.Collection,
		Filters:    loc.Filters(),
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	}}
}

// UsesLimit reports whether the request is paginated.
func (r Request) UsesLimit() bool {
	return r.Search != nil
}
