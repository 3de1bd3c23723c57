// Package web embeds the administrator dashboard: a small single-page UI
// (login screen plus tabbed dashboard) that drives the JSON API.
package web

import "embed"

//go:embed static
var Static embed.FS
