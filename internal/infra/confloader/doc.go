// Package confloader provides configuration loading mechanism.
//
// It layers koanf sources, later ones overriding earlier:
//
//  1. Default values (the target struct as passed in)
//  2. Configuration file (YAML)
//  3. Legacy variables HMAC_SECRET, LOG_LEVEL and NODE_ENV
//  4. AWARENESS_ environment variables, "__" separating levels
//     (AWARENESS_TOKEN__SECRET sets token.secret)
//
// Watcher reports writes to the configuration file so the server can apply
// settings that are safe to change at runtime.
package confloader
