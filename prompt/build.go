package prompt

// Build joins a template and the text it operates on with a blank line.
func Build(template, body string) string {
	return template + "\n\n" + body
}
