// Package migrations carries the emulator schema as numbered SQL files.
package migrations

import "embed"

//go:embed *.sql
var Schema embed.FS
