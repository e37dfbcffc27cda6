package db

import (
	_ "embed"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string
