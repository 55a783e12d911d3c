// Package crypto holds the key-material primitives used by airoi.
//
// Contents
//
//   - Identity generation from a 32-byte Ed25519 seed, with the X25519
//     exchange pair derived deterministically from it (GenerateIdentity,
//     IdentityFromSeed, ExchangePrivateFromSeed)
//   - Conversion of a peer's Ed25519 public key to its X25519 public key
//     (SigningToExchangePublic)
//   - base58 fingerprints and key encodings (Fingerprint, EncodeKey, DecodeKey)
//   - Passphrase envelope: Argon2id key derivation and XChaCha20-Poly1305
//     sealing (DeriveKey, Seal, Open)
//
// # Notes
//
// Derivation is pure: the same seed always yields the same exchange pair, so a
// remote peer's signing public key alone is enough to compute the exchange
// fingerprint that a handshake will reveal. Callers own every private buffer
// returned here and should wipe it with memzero once done.
package crypto
