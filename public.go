// Package notifier embeds the static assets served next to the API: the
// demo product page, the iframe embed page, and the widget script and styles.
package notifier

import (
	"embed"
	"io/fs"
)

//go:embed public
var embeddedPublic embed.FS

// PublicFS is the embedded public directory, rooted at its contents.
var PublicFS = mustSub(embeddedPublic, "public")

func mustSub(f embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
