package statics

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed www/*
var www embed.FS

// ServeStatics serves the embedded landing page. A non-empty staticsDir
// overrides the embedded files with a directory on disk.
func ServeStatics(staticsDir string) http.HandlerFunc {
	if staticsDir != "" {
		return http.FileServer(http.Dir(staticsDir)).ServeHTTP
	}

	sub, err := fs.Sub(www, "www")
	if err != nil {
		panic(err) // unreachable, www is embedded
	}

	return http.FileServer(http.FS(sub)).ServeHTTP
}
