package templates

import "embed"

// EmailFS contains the HTML bodies of transactional emails.
//
//go:embed email/*.html
var EmailFS embed.FS
