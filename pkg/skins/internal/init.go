// Package internal contains the ambient infrastructure of the skin runtime:
// logging with diagnostics subscriptions, persisted configuration, and
// localized strings. Types and functions in this package are not part of the
// public API.
package internal
