package odata

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamTop       = "$top"
	ParamSkip      = "$skip"
	ParamFormat    = "$format"
	ParamSQLFilter = "$sqlfilter"

	DefaultTop  = 500
	DefaultSkip = 0
)

// Options are the query options of a collection request.
type Options struct {
	Limit  int
	Offset int
	// RawSQL replaces the structured search when set. Limit and Offset do
	// not apply to it.
	RawSQL string
	JSON   bool
}

// Interpret reads the query options for collection out of params. Malformed
// or negative $top/$skip values fall back to their defaults.
//
// $sqlfilter is spliced into the statement without any escaping. The
// datastore is expected to run it with read-only, already authorised
// credentials.
func Interpret(collection string, params url.Values) Options {
	opts := Options{
		Limit:  queryInt(params, ParamTop, DefaultTop),
		Offset: queryInt(params, ParamSkip, DefaultSkip),
		JSON:   params.Get(ParamFormat) == "json",
	}

	if filter := params.Get(ParamSQLFilter); filter != "" {
		opts.RawSQL = fmt.Sprintf(`SELECT * FROM "%s" %s`, collection, filter)
	}
	return opts
}

func queryInt(params url.Values, key string, def int) int {
	raw, ok := params[key]
	if !ok || len(raw) == 0 {
		return def
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil {
		return def
	}
	return v
}
