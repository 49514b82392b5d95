// Package script runs user supplied Lisp against a controlled scope.
//
// Every scope exposes the same fixed capability surface: the application
// handle (app), the view-model store (vm-store), the rendering handle (ui)
// and a print function that writes into the owner's log instead of stdout.
// Faults raised while evaluating, including Go panics inside primitives,
// are returned as *Error values carrying a readable trace.
package script
