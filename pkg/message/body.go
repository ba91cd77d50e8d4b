package message

// Truncation markers appended when a body exceeds its ceiling, so the cut is
// self-describing to a downstream viewer.
const (
	TextTruncationNotice = "\n\n[Content truncated - too large]"
	HTMLTruncationNotice = "\n\n<!-- Content truncated - too large -->"
)

// Truncate caps body at limit bytes, appending marker when a cut was made.
// This is a plain byte operation; tag balance in HTML is not preserved. For
// HTML it must run after sanitization so the ceiling bounds the safe payload.
func Truncate(body string, limit int, marker string) string {
	if limit <= 0 || len(body) <= limit {
		return body
	}
	return body[:limit] + marker
}
