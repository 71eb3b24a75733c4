// Package web embeds the HTML templates and static assets of the ledger UI.
package web

import "embed"

// TemplatesFS holds one layout plus one template per page.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds stylesheets.
//
//go:embed static/*
var StaticFS embed.FS
