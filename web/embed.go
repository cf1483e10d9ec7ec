package web

import "embed"

// FS embeds HTML templates and static assets (css/js) for server-side
// rendering.
//
//go:embed templates/*.html static/*
var FS embed.FS
