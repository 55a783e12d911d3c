package store

import (
	"errors"
	"sync"

	"airoi/internal/domain"
	"airoi/internal/util/memzero"
)

// PassphraseSource asks the operator for the keystore passphrase. confirm is
// set when a new record is about to be written.
type PassphraseSource interface {
	Passphrase(confirm bool) ([]byte, error)
}

// PassphraseCache holds the keystore passphrase for the lifetime of one
// process. The source is consulted at most once; later callers reuse the
// cached bytes. Call Scrub when the process no longer needs it.
//
// The zero value is not usable; construct with NewPassphraseCache.
type PassphraseCache struct {
	mu     sync.Mutex
	value  []byte
	source PassphraseSource
}

// NewPassphraseCache returns an empty cache backed by src.
func NewPassphraseCache(src PassphraseSource) *PassphraseCache {
	return &PassphraseCache{source: src}
}

// Use runs fn with the cached passphrase, prompting first if nothing is
// cached. fn must not retain the slice. An authentication failure from fn
// invalidates the cache so that a wrong passphrase is not reused.
func (c *PassphraseCache) Use(fn func(pass []byte) error) error {
	return c.use(false, fn)
}

// UseNew is Use for writers: the prompt, if one is needed, asks for
// confirmation.
func (c *PassphraseCache) UseNew(fn func(pass []byte) error) error {
	return c.use(true, fn)
}

func (c *PassphraseCache) use(confirm bool, fn func([]byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == nil {
		if c.source == nil {
			return domain.IOError("read passphrase", errors.New("no passphrase source"))
		}
		p, err := c.source.Passphrase(confirm)
		if err != nil {
			return domain.IOError("read passphrase", err)
		}
		c.value = p
	}

	err := fn(c.value)
	if errors.Is(err, domain.ErrAuthentication) {
		c.scrubLocked()
	}
	return err
}

// Scrub zeroes and forgets the cached passphrase.
func (c *PassphraseCache) Scrub() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrubLocked()
}

func (c *PassphraseCache) scrubLocked() {
	memzero.Zero(c.value)
	c.value = nil
}
