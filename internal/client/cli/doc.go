// Package cli provides the interactive GophProfile command-line client.
//
// Build wires configuration, the local session cache, the identity client,
// the selected profile store and the session coordinator. App.Run starts the
// coordinator and the optional /metrics endpoint in the background and then
// blocks in a REPL until the user exits.
//
// Commands:
//   - register / login / logout
//   - profile (show) and edit (profile fields and password)
//   - status, help, exit | quit
//
// Every form is validated locally before the coordinator is called, and
// every message is printed in the configured locale.
package cli
