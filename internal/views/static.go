package views

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static returns the stylesheet and other assets served under /static/
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
