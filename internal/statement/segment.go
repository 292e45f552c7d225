package statement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSegmentNotFound means the document does not carry the expected anchor
// markers. The document is either of the wrong type or its layout changed.
var ErrSegmentNotFound = errors.New("bill summary segment not found")

// Markers delimit the bill summary region within a statement's text.
type Markers struct {
	Start string
	End   string
}

// Segment returns the text strictly between the first Start marker and the
// first End marker that follows it.
func Segment(text string, m Markers) (string, error) {
	if m.Start == "" || m.End == "" {
		return "", fmt.Errorf("%w: empty marker", ErrSegmentNotFound)
	}

	i := strings.Index(text, m.Start)
	if i < 0 {
		return "", fmt.Errorf("%w: missing start marker %q", ErrSegmentNotFound, m.Start)
	}
	rest := text[i+len(m.Start):]

	j := strings.Index(rest, m.End)
	if j < 0 {
		return "", fmt.Errorf("%w: missing end marker %q", ErrSegmentNotFound, m.End)
	}
	return rest[:j], nil
}
