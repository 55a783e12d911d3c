package store

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"airoi/internal/domain"
)

const (
	DefaultVaultService = "airoi"
	DefaultVaultAccount = "default"
)

// VaultBackend keeps the serialized key pair in the OS credential vault
// (Secret Service, macOS Keychain, Windows Credential Manager) under one
// service/account entry. The vault is responsible for protecting it at rest.
type VaultBackend struct {
	service string
	account string
}

// NewVaultBackend addresses the vault entry service/account.
func NewVaultBackend(service, account string) *VaultBackend {
	if service == "" {
		service = DefaultVaultService
	}
	if account == "" {
		account = DefaultVaultAccount
	}
	return &VaultBackend{service: service, account: account}
}

func (v *VaultBackend) Name() string { return "vault" }

// Save writes base64(JSON(kp)) to the vault entry.
func (v *VaultBackend) Save(kp domain.KeyPair) error {
	raw, err := marshalKeyPair(kp)
	if err != nil {
		return err
	}
	defer wipeJSON(raw)

	if err := keyring.Set(v.service, v.account, base64.StdEncoding.EncodeToString(raw)); err != nil {
		return domain.StorageError("vault save", fmt.Errorf("%w: %v", domain.ErrVaultUnavailable, err))
	}
	return nil
}

// Load reads the vault entry back.
func (v *VaultBackend) Load() (domain.KeyPair, error) {
	enc, err := keyring.Get(v.service, v.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return domain.KeyPair{}, domain.StorageError("vault load", domain.ErrNoIdentity)
	}
	if err != nil {
		return domain.KeyPair{}, domain.StorageError("vault load", fmt.Errorf("%w: %v", domain.ErrVaultUnavailable, err))
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return domain.KeyPair{}, domain.DecodeError("vault load", err)
	}
	defer wipeJSON(raw)
	return unmarshalKeyPair(raw)
}

// Delete removes the vault entry. A missing entry is not an error.
func (v *VaultBackend) Delete() error {
	err := keyring.Delete(v.service, v.account)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return domain.StorageError("vault delete", fmt.Errorf("%w: %v", domain.ErrVaultUnavailable, err))
}

var _ Backend = (*VaultBackend)(nil)
