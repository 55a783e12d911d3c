package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"airoi/internal/crypto"
	"airoi/internal/domain"
	"airoi/internal/util/memzero"
)

// Backend is one way of persisting the local key pair.
type Backend interface {
	Name() string
	Save(kp domain.KeyPair) error
	Load() (domain.KeyPair, error)
}

// KeyStore tries its backends in order. The first successful Save or Load
// wins; earlier failures are logged and only the last one is returned.
type KeyStore struct {
	backends []Backend
	log      *zap.Logger
}

// NewKeyStore returns a KeyStore over backends, tried in the given order.
func NewKeyStore(log *zap.Logger, backends ...Backend) *KeyStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &KeyStore{backends: backends, log: log.Named("keystore")}
}

// StoreKeyPair persists kp with the first backend that accepts it.
func (k *KeyStore) StoreKeyPair(kp domain.KeyPair) error {
	if len(k.backends) == 0 {
		return domain.StorageError("store key pair", errors.New("no backends configured"))
	}
	var err error
	for _, b := range k.backends {
		if err = b.Save(kp); err == nil {
			k.log.Debug("key pair stored", zap.String("backend", b.Name()))
			return nil
		}
		k.log.Debug("backend save failed", zap.String("backend", b.Name()), zap.Error(err))
	}
	return err
}

// FetchLocalKeyPair returns the key pair from the first backend holding a
// valid one. The caller owns the result and should Wipe it after use.
func (k *KeyStore) FetchLocalKeyPair() (domain.KeyPair, error) {
	if len(k.backends) == 0 {
		return domain.KeyPair{}, domain.StorageError("fetch key pair", errors.New("no backends configured"))
	}
	var err error
	for _, b := range k.backends {
		var kp domain.KeyPair
		if kp, err = b.Load(); err == nil {
			return kp, nil
		}
		k.log.Debug("backend load failed", zap.String("backend", b.Name()), zap.Error(err))
	}
	return domain.KeyPair{}, err
}

// marshalKeyPair is the serialization shared by every backend.
func marshalKeyPair(kp domain.KeyPair) ([]byte, error) {
	b, err := json.Marshal(kp)
	if err != nil {
		return nil, domain.DecodeError("encode key pair", err)
	}
	return b, nil
}

// unmarshalKeyPair parses b and checks that the public half and the
// exchange private key are the derivation of the stored seed.
func unmarshalKeyPair(b []byte) (domain.KeyPair, error) {
	var kp domain.KeyPair
	if err := json.Unmarshal(b, &kp); err != nil {
		return domain.KeyPair{}, domain.DecodeError("decode key pair", err)
	}
	if err := checkKeyPair(kp); err != nil {
		kp.Wipe()
		return domain.KeyPair{}, err
	}
	return kp, nil
}

func checkKeyPair(kp domain.KeyPair) error {
	if len(kp.Private.Signing.Raw) != crypto.KeySize {
		return domain.DecodeError("decode key pair", fmt.Errorf("signing seed must be %d bytes", crypto.KeySize))
	}
	want, err := crypto.IdentityFromSeed(kp.Private.Signing.Raw, kp.CreatedAt)
	if err != nil {
		return err
	}
	defer want.Wipe()

	if !bytes.Equal(want.Private.Exchange.Raw, kp.Private.Exchange.Raw) ||
		!bytes.Equal(want.Public.Signing.Raw, kp.Public.Signing.Raw) ||
		!bytes.Equal(want.Public.Exchange.Raw, kp.Public.Exchange.Raw) {
		return domain.DecodeError("decode key pair", errors.New("stored keys are not derived from the stored seed"))
	}
	return nil
}

// wipeJSON zeroes a serialized key pair.
func wipeJSON(b []byte) { memzero.Zero(b) }
