package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

// StaticFS exposes the embedded assets rooted at static/.
func StaticFS() http.FileSystem {
	fsys, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// IndexPage returns the landing page bytes.
func IndexPage() ([]byte, error) {
	return staticFiles.ReadFile("static/index.html")
}
