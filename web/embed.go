// Package web holds the embedded templates and static assets for the
// conversion web runner.
package web

import "embed"

//go:embed templates static
var Assets embed.FS
