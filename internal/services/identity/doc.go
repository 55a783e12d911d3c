// Package identity creates, stores and describes the local key pair.
//
// It also owns the passphrase strength policy applied when a new keystore
// passphrase is chosen.
package identity
