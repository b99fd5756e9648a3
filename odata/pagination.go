package odata

import "fmt"

// NextLink returns the query string of the following page, or "" when the
// current page is the last one. Raw SQL requests are never paginated.
func NextLink(total, offset, limit int, usedRawSQL bool) string {
	if usedRawSQL || offset+limit >= total {
		return ""
	}
	return fmt.Sprintf("%s=%d&%s=%d", ParamSkip, offset+limit, ParamTop, limit)
}
