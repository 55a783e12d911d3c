// Package store persists airoi's local state under the configured home
// directory.
//
// It provides:
//   - KeyStore, an ordered list of Backends for the local key pair:
//     VaultBackend (OS credential vault via go-keyring) and FileBackend
//     (Argon2id + XChaCha20-Poly1305 record in keys.enc)
//   - PassphraseCache, the per-process passphrase holder used by FileBackend
//   - ContactFileStore, the contact registry in contacts.json
//
// Files are replaced atomically (temp file + rename) with mode 0600. All
// stores are safe for concurrent use.
package store
