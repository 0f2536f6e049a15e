// Package connectors holds the remote API clients that implement the
// driven ports of internal/core. Each subpackage talks to one hosting
// service; github is the only one today.
package connectors
