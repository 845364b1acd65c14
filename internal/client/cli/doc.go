// Package cli provides the interactive terminal front end of the sign-in
// dialog.
//
// It wires configuration, the local metadata store, the API client, the auth
// controller and the dialog onto one event bus, then runs a REPL in which
// every command is a dialog action. Each form is prompted field by field and
// the dialog is printed as a styled box after every step.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and TerminalView for details.
package cli
