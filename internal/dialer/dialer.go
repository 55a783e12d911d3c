package dialer

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultPort is appended to addresses that carry no port.
const DefaultPort = 4444

// Config selects how connections are made.
type Config struct {
	// SOCKSProxy is host:port of a SOCKS5 proxy; empty dials directly.
	SOCKSProxy  string
	DefaultPort int
	Timeout     time.Duration
}

// Dialer dials contact addresses, filling in the default port.
type Dialer struct {
	next        proxy.ContextDialer
	defaultPort int
}

// New builds a Dialer from cfg.
func New(cfg Config) (*Dialer, error) {
	if cfg.DefaultPort == 0 {
		cfg.DefaultPort = DefaultPort
	}
	direct := &net.Dialer{Timeout: cfg.Timeout}
	d := &Dialer{next: direct, defaultPort: cfg.DefaultPort}

	if cfg.SOCKSProxy == "" {
		return d, nil
	}
	p, err := proxy.SOCKS5("tcp", cfg.SOCKSProxy, nil, direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy %s: %w", cfg.SOCKSProxy, err)
	}
	cd, ok := p.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks5 proxy %s: dialer does not support contexts", cfg.SOCKSProxy)
	}
	d.next = cd
	return d, nil
}

// DialContext connects to address, appending the default port if address
// has none. Hostnames are passed through unresolved so that a SOCKS proxy
// resolves them (needed for .onion names).
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return d.next.DialContext(ctx, network, WithDefaultPort(address, d.defaultPort))
}

// WithDefaultPort returns addr with port appended when it has none.
func WithDefaultPort(addr string, port int) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(trimBrackets(addr), strconv.Itoa(port))
}

func trimBrackets(host string) string {
	if len(host) > 1 && host[0] == '[' && host[len(host)-1] == ']' {
		return host[1 : len(host)-1]
	}
	return host
}
