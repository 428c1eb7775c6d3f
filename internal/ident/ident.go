package ident

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"math/bits"
)

// Digest hashes content together with the server salt and encodes the
// result without padding. The same content and salt always produce the
// same digest, so it doubles as a lookup key and as proof that the
// caller holds the exact bytes.
func Digest(content []byte, salt []byte) string {
	salted := make([]byte, 0, len(content)+len(salt))
	salted = append(salted, content...)
	salted = append(salted, salt...)

	sum := sha256.Sum256(salted)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Label encodes the minimal big-endian prefix of id, so small sequence
// numbers get short labels. Id 0 still encodes one byte.
func Label(id int64) string {
	n := (bits.Len64(uint64(id)) + 7) / 8
	if n == 0 {
		n = 1
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return base64.RawURLEncoding.EncodeToString(buf[8-n:])
}
