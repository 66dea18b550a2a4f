// Package web holds embedded static assets and templates for newspie.
package web

import "embed"

// TemplateFS contains all HTML templates.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS contains the stylesheet and other static assets.
//
//go:embed static
var StaticFS embed.FS
