// Package shortcut holds keyboard shortcuts and the bindings they dispatch
// through.
//
// A Shortcut is identified only by its ID. Invoking one runs the optional
// pre-process hook, the target and the optional post-process hook against
// the application handle, in that order. The Registry resolves pressed keys
// to shortcuts for the focused context and applies user key overrides.
package shortcut
