// Package web embeds the single-page client served at the site root.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// FS returns the client files as an http.FileSystem rooted at static/.
func FS() http.FileSystem {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err) // embed layout is fixed at build time
	}
	return http.FS(sub)
}
