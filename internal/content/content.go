package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	policy   = bluemonday.UGCPolicy()
	markdown = goldmark.New()
)

// Sanitize removes unsafe HTML from the input string using a strict policy.
// Applied to every message and notification body before rendering.
func Sanitize(input string) string {
	return policy.Sanitize(input)
}

// Escape escapes special characters like "<" to become "&lt;".
// It matches the behavior of html/template and is safe for use in HTML attributes.
func Escape(input string) string {
	return template.HTMLEscapeString(input)
}

// RenderAnnouncement converts a broadcast announcement written in markdown
// to sanitized HTML for the portal page.
func RenderAnnouncement(input string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("failed to render announcement: %w", err)
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}
