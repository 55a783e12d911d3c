package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"airoi/internal/domain"
	"airoi/internal/services/identity"
	"airoi/internal/util/memzero"
)

// terminalPrompter asks the operator on the controlling terminal. Prompts
// from concurrent connections are serialized.
type terminalPrompter struct {
	mu    sync.Mutex
	in    *bufio.Reader
	fd    int
	tty   bool
	out   io.Writer
	fixed []byte
}

func newTerminalPrompter(in *os.File, out io.Writer, fixed string) *terminalPrompter {
	p := &terminalPrompter{
		in:  bufio.NewReader(in),
		fd:  int(in.Fd()),
		tty: term.IsTerminal(int(in.Fd())),
		out: out,
	}
	if fixed != "" {
		p.fixed = []byte(fixed)
	}
	return p
}

// Passphrase returns the fixed passphrase if one was given, else reads it
// without echo. New passphrases are entered twice and checked for strength.
func (p *terminalPrompter) Passphrase(confirm bool) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fixed != nil {
		pass := append([]byte(nil), p.fixed...)
		if confirm {
			if err := identity.CheckPassphrase(pass); err != nil {
				return nil, err
			}
		}
		return pass, nil
	}

	pass, err := p.readSecret("Keystore passphrase: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return pass, nil
	}
	if err := identity.CheckPassphrase(pass); err != nil {
		return nil, err
	}
	again, err := p.readSecret("Repeat passphrase: ")
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(again)
	if !bytes.Equal(pass, again) {
		memzero.Zero(pass)
		return nil, errors.New("passphrases do not match")
	}
	return pass, nil
}

// ConfirmContact asks whether to trust an unknown peer and under which name.
func (p *terminalPrompter) ConfirmContact(fingerprint, address string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\nUnknown peer %s connected from %s.\nTrust this peer? [y/N]: ", fingerprint, address)
	answer, err := p.readLine()
	if err != nil {
		return "", false, err
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		return "", false, nil
	}
	fmt.Fprint(p.out, "Name for this contact: ")
	name, err := p.readLine()
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (p *terminalPrompter) readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(p.out, prompt)
	if !p.tty {
		line, err := p.readLine()
		return []byte(line), err
	}
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	return b, err
}

func (p *terminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ domain.Prompter = (*terminalPrompter)(nil)
