package domain

// ContactStore persists the ordered list of trust anchors.
type ContactStore interface {
	List() ([]Contact, error)
	Add(c Contact) error
	Remove(name string) error
}

// Prompter asks the local operator for input.
type Prompter interface {
	// Passphrase reads the keystore passphrase. When confirm is set the
	// passphrase is new and must be entered twice.
	Passphrase(confirm bool) ([]byte, error)
	// ConfirmContact asks whether an unknown peer should be trusted and, if
	// so, under which display name.
	ConfirmContact(fingerprint, address string) (name string, ok bool, err error)
}
