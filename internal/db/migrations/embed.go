// Package migrations embeds the SQL migrations of the saved-graph library.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migrations for the PostgreSQL backend.
func Postgres() fs.FS {
	return sub("postgres")
}

// SQLite returns the migrations for the SQLite backend.
func SQLite() fs.FS {
	return sub("sqlite")
}

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		// The directories are embedded at build time.
		panic(err)
	}

	return fsys
}
