package subscriptions

import (
	"crypto/rand"
	"math/big"
)

const (
	tokenLength   = 25
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateToken returns a 25-character alphanumeric confirmation token drawn
// from crypto/rand. Tokens are best-effort unique: the primary key on the
// token column catches the negligible collision case and fails the insert.
func GenerateToken() string {
	var token [tokenLength]byte
	for i := range token {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(tokenAlphabet))))
		token[i] = tokenAlphabet[n.Int64()]
	}
	return string(token[:])
}
