// Package config holds awareness-cli settings and the saved session state.
//
// Settings live in ~/.awareness/cli.yaml and are overridden by flags. The
// state file remembers the session id and latest token so successive
// commands can continue one session without repeating them.
package config
