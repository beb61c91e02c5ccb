// Package output renders command results for awareness-cli.
//
// Results are printed as aligned key/value text (the default), JSON or
// YAML. Field names come from json tags so every format uses the same keys
// as the HTTP API.
package output
