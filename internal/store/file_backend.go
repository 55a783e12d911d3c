package store

import (
	"fmt"
	"path/filepath"

	"airoi/internal/crypto"
	"airoi/internal/domain"
)

const (
	keystoreFilename = "keys.enc"

	// keystoreFormatVersion is the record version written by Save. Records
	// without a version predate the field and are read as version 1.
	keystoreFormatVersion = 1
)

// keystoreRecord is the on-disk JSON form of an encrypted key pair.
type keystoreRecord struct {
	V          int    `json:"v"`
	Salt       string `json:"salt_b64"`
	Nonce      string `json:"nonce_b64"`
	Ciphertext string `json:"ct_b64"`
	crypto.KDFParams
}

// FileBackend seals the key pair under a passphrase-derived key and writes it
// to <home>/keys.enc with mode 0600.
type FileBackend struct {
	path   string
	params crypto.KDFParams
	pass   *PassphraseCache
}

// NewFileBackend returns a FileBackend rooted at home. params are used for
// new records only; loads always use the parameters stored in the record.
func NewFileBackend(home string, params crypto.KDFParams, pass *PassphraseCache) *FileBackend {
	return &FileBackend{
		path:   filepath.Join(home, keystoreFilename),
		params: params,
		pass:   pass,
	}
}

func (f *FileBackend) Name() string { return "file" }

// Path returns the record location.
func (f *FileBackend) Path() string { return f.path }

// Save encrypts kp with a fresh salt and nonce and replaces the record.
func (f *FileBackend) Save(kp domain.KeyPair) error {
	pt, err := marshalKeyPair(kp)
	if err != nil {
		return err
	}
	defer wipeJSON(pt)

	return f.pass.UseNew(func(pass []byte) error {
		sealed, err := crypto.Seal(pass, pt, f.params)
		if err != nil {
			return err
		}
		rec := keystoreRecord{
			V:          keystoreFormatVersion,
			Salt:       crypto.B64(sealed.Salt),
			Nonce:      crypto.B64(sealed.Nonce),
			Ciphertext: crypto.B64(sealed.Ciphertext),
			KDFParams:  sealed.Params,
		}
		return writeJSON(f.path, rec, 0o600)
	})
}

// Load reads and decrypts the record. A wrong passphrase or a modified
// record fails with ErrAuthentication; a record that does not parse fails
// with a decode error before any passphrase is requested.
func (f *FileBackend) Load() (domain.KeyPair, error) {
	var rec keystoreRecord
	found, err := readJSON(f.path, &rec)
	if err != nil {
		return domain.KeyPair{}, err
	}
	if !found {
		return domain.KeyPair{}, domain.IOError("load keystore", fmt.Errorf("%w: %s does not exist", domain.ErrNoIdentity, f.path))
	}
	sealed, err := rec.sealed()
	if err != nil {
		return domain.KeyPair{}, err
	}

	var kp domain.KeyPair
	err = f.pass.Use(func(pass []byte) error {
		pt, err := crypto.Open(pass, sealed)
		if err != nil {
			return err
		}
		defer wipeJSON(pt)
		kp, err = unmarshalKeyPair(pt)
		return err
	})
	if err != nil {
		return domain.KeyPair{}, err
	}
	return kp, nil
}

func (r keystoreRecord) sealed() (crypto.Sealed, error) {
	const op = "parse keystore record"
	if r.V > keystoreFormatVersion {
		return crypto.Sealed{}, domain.DecodeError(op, fmt.Errorf("unsupported version %d", r.V))
	}
	salt, err := crypto.UnB64(r.Salt)
	if err != nil {
		return crypto.Sealed{}, domain.DecodeError(op, fmt.Errorf("salt: %w", err))
	}
	nonce, err := crypto.UnB64(r.Nonce)
	if err != nil {
		return crypto.Sealed{}, domain.DecodeError(op, fmt.Errorf("nonce: %w", err))
	}
	ct, err := crypto.UnB64(r.Ciphertext)
	if err != nil {
		return crypto.Sealed{}, domain.DecodeError(op, fmt.Errorf("ciphertext: %w", err))
	}
	if len(salt) != crypto.SaltBytes || len(nonce) != crypto.NonceBytes {
		return crypto.Sealed{}, domain.DecodeError(op, fmt.Errorf("salt/nonce length %d/%d", len(salt), len(nonce)))
	}
	return crypto.Sealed{Salt: salt, Nonce: nonce, Ciphertext: ct, Params: r.KDFParams}, nil
}

var _ Backend = (*FileBackend)(nil)
