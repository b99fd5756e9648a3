package odata

import (
	"regexp"
	"strings"
)

// XML NameChar ranges (https://www.w3.org/TR/REC-xml/#NT-NameChar) that are
// kept by Sanitize. U+00D8-U+00F6, U+00F8-U+02FF and the supplementary planes
// are dropped as well, which keeps output compatible with existing clients.
var (
	invalidNameChar = regexp.MustCompile(`[^:A-Z_a-z\-.0-9\x{00B7}\x{00C0}-\x{00D6}\x{0370}-\x{037D}\x{037F}-\x{1FFF}\x{200C}-\x{200D}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}\x{0300}-\x{036F}\x{203F}-\x{2040}]`)
	nonStartChar    = regexp.MustCompile(`^[-.0-9\x{00B7}\x{0300}-\x{036F}\x{203F}-\x{2040}]`)
)

// Sanitize converts a datastore field name into a well-formed XML element
// name. Illegal characters are removed, a leading character that may not
// start a name is prefixed with "_", and an empty result becomes "NaN".
func Sanitize(name string) string {
	name = strings.ToValidUTF8(name, "")
	name = invalidNameChar.ReplaceAllString(name, "")

	if nonStartChar.MatchString(name) {
		name = "_" + name
	}

	if name == "" {
		return "NaN"
	}
	return name
}
