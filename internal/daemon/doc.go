// Package daemon hosts the long-running survey service: it owns the session
// registry, feedback stores, and provider client, and serves both the
// provider callback endpoints and the operator JSON API over one listener.
package daemon
