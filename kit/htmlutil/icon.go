package htmlutil

import "strings"

// EmojiIconURL returns an SVG data URL drawing emoji, usable as a favicon
// href.
func EmojiIconURL(emoji string) string {
	var sb strings.Builder
	sb.WriteString("data:image/svg+xml,")
	sb.WriteString("<svg xmlns='http://www.w3.org/2000/svg' width='48' height='48' viewBox='0 0 16 16'>")
	sb.WriteString("<text x='0' y='14'>")
	sb.WriteString(strings.NewReplacer("<", "&lt;", "&", "&amp;", "#", "%23").Replace(emoji))
	sb.WriteString("</text></svg>")
	return sb.String()
}
