// Package services defines the error taxonomy shared by external clients
// and HTTP handlers.
//
// Sentinel markers classify failures (validation, not found, upstream,
// configuration, transient) so callers can branch with errors.Is without
// parsing messages. Wrap attaches component and operation context while
// preserving the marker and the underlying cause in the %w chain.
package services
