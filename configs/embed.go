// Package configs holds the annotated example configuration file.
package configs

import _ "embed"

// Example is the commented default config.yaml written by "listkit config init"
//
//go:embed example.yaml
var Example []byte
