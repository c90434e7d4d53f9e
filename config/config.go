package config

import (
	"embed"
)

// Store holds the embedded config files. `.secrets.yml` is not embedded and is read from the file system.
//
//go:embed settlement/*.yml
var Store embed.FS
