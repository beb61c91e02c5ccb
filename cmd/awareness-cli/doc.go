// Package main provides the entry point for awareness-cli.
//
// awareness-cli plays through the awareness experience against a running
// awareness-server, keeping the current session in a local state file:
//
//	awareness-cli session start
//	awareness-cli session progress            # next step
//	awareness-cli session complete --score 1200
//	awareness-cli session play --steps 2      # all of the above
package main
