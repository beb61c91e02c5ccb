// Package tlsroots builds the TLS configurations used by awareness-server.
//
// ClientConfig trusts the system roots plus an optional CA bundle and is
// used to dial Redis. CertReloader serves the HTTPS certificate and swaps
// it in place when the key pair on disk changes.
package tlsroots
