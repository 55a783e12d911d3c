// Package message carries application messages over handshake sessions.
//
// Server accepts connections, runs the responder handshake, binds the peer to
// a contact and delivers every decrypted message on a channel. Client dials a
// contact, runs the initiator handshake and sends exactly one message.
package message
