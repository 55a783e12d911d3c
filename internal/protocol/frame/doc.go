// Package frame implements airoi's wire framing: a 2-byte big-endian length
// followed by up to 65535 payload bytes. Every handshake and transport
// message is exactly one frame.
package frame
