package bot

import "strings"

// Placeholder is replaced by the requester's display name.
const Placeholder = "{name}"

// Render substitutes name for every occurrence of Placeholder. Other braces
// are left alone.
func Render(tmpl, name string) string {
	return strings.ReplaceAll(tmpl, Placeholder, name)
}
