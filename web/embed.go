// Package web holds the HTML templates and static assets compiled into the binary.
package web

import "embed"

// Templates contains templates/*.html.
//
//go:embed templates/*.html
var Templates embed.FS

// Static contains the client script and stylesheet under static/.
//
//go:embed static
var Static embed.FS
