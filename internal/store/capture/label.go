package capture

import "regexp"

var labelStripRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeLabel strips everything outside [A-Za-z0-9._-] from a
// user-supplied version label. The result can be empty, which the
// capture engine rejects.
func SanitizeLabel(s string) string {
	return labelStripRe.ReplaceAllString(s, "")
}
