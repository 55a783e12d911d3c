package trust

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"airoi/internal/crypto"
	"airoi/internal/domain"
)

// ContactPrompter asks the operator whether to trust an unknown peer.
type ContactPrompter interface {
	ConfirmContact(fingerprint, address string) (name string, ok bool, err error)
}

// Resolver matches remote keys against a snapshot of the contact list taken
// at construction. Contacts accepted on first use are persisted to the store
// and appended to the snapshot, so later handshakes from the same peer match
// without prompting. Edits made to the store by other processes are not seen.
type Resolver struct {
	policy domain.TrustPolicy
	store  domain.ContactStore
	prompt ContactPrompter
	log    *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Contact

	// serializes operator prompts across connections
	promptMu sync.Mutex
}

// NewResolver returns a Resolver over snapshot. prompt may be nil under
// TrustReject.
func NewResolver(policy domain.TrustPolicy, snapshot []domain.Contact, store domain.ContactStore, prompt ContactPrompter, log *zap.Logger) *Resolver {
	if !policy.Valid() {
		policy = domain.TrustReject
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		policy:   policy,
		snapshot: append([]domain.Contact(nil), snapshot...),
		store:    store,
		prompt:   prompt,
		log:      log.Named("trust"),
	}
}

// Lookup scans the snapshot for a contact whose exchange key has fingerprint
// fp. The fingerprint is recomputed from the stored raw key rather than
// trusting the cached text.
func (r *Resolver) Lookup(fp string) (domain.Contact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.snapshot {
		if len(c.PublicKey.Exchange.Raw) == 0 {
			continue
		}
		if crypto.Fingerprint(c.PublicKey.Exchange.Raw) == fp {
			return c, true
		}
	}
	return domain.Contact{}, false
}

// Resolve returns the contact for remoteStatic, applying the trust policy
// when none matches. address is the peer's network address as seen locally.
func (r *Resolver) Resolve(remoteStatic []byte, address string) (domain.Contact, error) {
	fp := crypto.Fingerprint(remoteStatic)
	if c, ok := r.Lookup(fp); ok {
		return c, nil
	}

	if r.policy != domain.TrustOnFirstUse || r.prompt == nil {
		return domain.Contact{}, domain.UnknownSender(fp)
	}

	r.promptMu.Lock()
	defer r.promptMu.Unlock()

	// another connection may have accepted this peer while we waited
	if c, ok := r.Lookup(fp); ok {
		return c, nil
	}

	name, ok, err := r.prompt.ConfirmContact(fp, address)
	if err != nil {
		return domain.Contact{}, domain.IOError("prompt operator", err)
	}
	if !ok {
		return domain.Contact{}, domain.SenderNotTrusted(fp)
	}
	if name == "" {
		name = fp
	}

	c := domain.Contact{
		Name:      name,
		PublicKey: domain.KeyBundle{Exchange: crypto.NewPublicMaterial(remoteStatic)},
		Address:   address,
		AddedAt:   time.Now().UTC(),
	}
	if err := r.store.Add(c); err != nil {
		return domain.Contact{}, err
	}
	r.mu.Lock()
	r.snapshot = append(r.snapshot, c)
	r.mu.Unlock()
	r.log.Info("contact trusted on first use", zap.String("name", name), zap.String("fingerprint", fp))
	return c, nil
}
