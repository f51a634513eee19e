// AngelaMos | 2026
// security.go

package core

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashSenha produces the stored digest for a senha. The digest is
// deterministic: verification is a straight digest comparison, and the
// plaintext is never persisted.
func HashSenha(senha string) string {
	digest := sha256.Sum256([]byte(senha))
	return hex.EncodeToString(digest[:])
}

// VerifySenha compares a plaintext senha against a stored digest in
// constant time.
func VerifySenha(senha, storedDigest string) bool {
	digest := HashSenha(senha)
	return subtle.ConstantTimeCompare(
		[]byte(digest),
		[]byte(storedDigest),
	) == 1
}
