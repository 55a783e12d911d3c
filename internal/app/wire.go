package app

import (
	"go.uber.org/zap"

	"airoi/internal/dialer"
	"airoi/internal/domain"
	contactsvc "airoi/internal/services/contact"
	identitysvc "airoi/internal/services/identity"
	"airoi/internal/services/message"
	"airoi/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config     Config
	Log        *zap.Logger
	Passphrase *store.PassphraseCache
	Keys       *store.KeyStore
	Contacts   *store.ContactFileStore
	Identity   *identitysvc.Service
	Contact    *contactsvc.Service
	Client     *message.Client
	prompter   domain.Prompter
}

// NewWire constructs the dependency graph from cfg. prompter supplies the
// keystore passphrase and TOFU decisions.
func NewWire(cfg Config, log *zap.Logger, prompter domain.Prompter) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	pass := store.NewPassphraseCache(prompter)

	var backends []store.Backend
	if !cfg.Keyring.Disabled {
		backends = append(backends, store.NewVaultBackend(cfg.Keyring.Service, cfg.Keyring.Account))
	}
	backends = append(backends, store.NewFileBackend(cfg.Home, cfg.KDF, pass))
	keys := store.NewKeyStore(log, backends...)

	contacts := store.NewContactFileStore(cfg.Home, cfg.DuplicateContacts)

	d, err := dialer.New(dialer.Config{SOCKSProxy: cfg.SOCKSProxy, DefaultPort: cfg.DefaultPort})
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config:     cfg,
		Log:        log,
		Passphrase: pass,
		Keys:       keys,
		Contacts:   contacts,
		Identity:   identitysvc.New(keys),
		Contact:    contactsvc.New(contacts),
		Client:     message.NewClient(keys, d, log),
		prompter:   prompter,
	}, nil
}

// Server builds a Server listening on addr, or on the configured address
// when addr is empty.
func (w *Wire) Server(addr string) *message.Server {
	if addr == "" {
		addr = w.Config.ListenAddr
	}
	return message.NewServer(message.ServerConfig{
		Addr:     addr,
		Policy:   w.Config.TrustPolicy,
		Keys:     w.Keys,
		Contacts: w.Contacts,
		Prompter: w.prompter,
		Logger:   w.Log,
	})
}

// Close scrubs the cached passphrase and flushes the logger.
func (w *Wire) Close() {
	w.Passphrase.Scrub()
	_ = w.Log.Sync()
}
