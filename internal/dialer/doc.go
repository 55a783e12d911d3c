// Package dialer opens the byte stream a client sends over: plain TCP, or
// TCP through a SOCKS5 proxy such as a local Tor daemon. Starting and
// stopping the proxy itself is the operator's job.
package dialer
