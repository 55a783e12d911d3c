// Package app wires application dependencies for the CLI.
//
// It loads Config from config.yaml, builds the keystore backends, the
// contact store, the high-level services and the dialer, and exposes them
// via the Wire struct for commands to use.
package app
