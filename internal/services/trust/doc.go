// Package trust binds a handshake's remote static key to a contact.
//
// Peers are matched on the fingerprint of their X25519 public key, never on
// name. What happens to an unknown fingerprint is decided by the configured
// domain.TrustPolicy.
package trust
