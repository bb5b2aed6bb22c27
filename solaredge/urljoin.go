package solaredge

import (
	"fmt"
	"strings"
)

// URLJoin joins path segments into a single URL with one slash between
// segments. A segment ending in "//" loses only its final character, so
// "http://host//" survives as "http://host/". Every other segment has its
// leading and trailing slashes trimmed. Non-string segments are formatted
// with fmt.Sprint.
func URLJoin(parts ...any) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		p := fmt.Sprint(part)
		if strings.HasSuffix(p, "//") {
			p = p[:len(p)-1]
		} else {
			p = strings.Trim(p, "/")
		}
		segments = append(segments, p)
	}
	return strings.Join(segments, "/")
}
