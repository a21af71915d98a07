package machine

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// verifyReserveSignature checks a compact secp256k1 signature over the sha256
// digest of the raw account bytes. Both the public key and the signature are
// base64, the signature is 64 bytes of r || s. Any decoding failure counts as
// an invalid signature.
func verifyReserveSignature(publicKey, account, signature string) error {
	if signature == "" {
		return ErrInvalidSignature
	}
	pub, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return ErrInvalidSignature
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(sig) != 64 {
		return ErrInvalidSignature
	}

	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return ErrInvalidSignature
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return ErrInvalidSignature
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return ErrInvalidSignature
	}

	hash := sha256.Sum256([]byte(account))
	if !ecdsa.NewSignature(&r, &s).Verify(hash[:], pk) {
		return ErrInvalidSignature
	}
	return nil
}
