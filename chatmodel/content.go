package chatmodel

import "fmt"

// FragmentKind tags the payload variant of a tool result fragment.
type FragmentKind string

const (
	FragmentText     FragmentKind = "text"
	FragmentImage    FragmentKind = "image"
	FragmentResource FragmentKind = "resource"
)

// Fragment is one unit of tool output. Providers return a sequence of
// fragments per call; the kind selects which payload fields are set.
type Fragment struct {
	Kind FragmentKind

	// Text is set for FragmentText.
	Text string
	// Data and MimeType are set for FragmentImage (base64 payload).
	Data     string
	MimeType string
	// URI and Text/Data are set for FragmentResource.
	URI string
}

// String renders the fragment for conversation output. Non-text payloads
// are summarized rather than dumped.
func (f Fragment) String() string {
	switch f.Kind {
	case FragmentText:
		return f.Text
	case FragmentImage:
		return fmt.Sprintf("[image %s, %d bytes base64]", f.MimeType, len(f.Data))
	case FragmentResource:
		if f.Text != "" {
			return fmt.Sprintf("[resource %s]\n%s", f.URI, f.Text)
		}
		return fmt.Sprintf("[resource %s, %d bytes]", f.URI, len(f.Data))
	default:
		return fmt.Sprintf("[unknown content kind %q]", string(f.Kind))
	}
}
