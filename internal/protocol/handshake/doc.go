// Package handshake runs the Noise_XX_25519_ChaChaPoly_BLAKE2s handshake over
// frames and hands back a transport Session.
//
// # Flow
//
//	-> e
//	<- e, ee, s, es
//	-> s, se
//
// Each arrow is one frame. The prologue is empty and handshake payloads are
// sent empty; payloads received from a peer are dropped. After message 3 both sides hold two directional cipher states and
// the peer's long-term X25519 public key; trust decisions on that key are
// made by the caller.
//
// # Failure
//
// Any error aborts the handshake. No cipher state from a partial handshake is
// returned, and the local static private key copy handed to the Noise state
// is zeroed on every exit path.
package handshake
