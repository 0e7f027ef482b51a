package transaction

import (
	"crypto/rand"
	"io"
	"strings"
)

const (
	// TxnIDPrefix is the default prefix of bank transfer transaction ids
	TxnIDPrefix = "BT"
	// TxnIDLength is the number of random characters following the prefix
	TxnIDLength = 12

	txnIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// largest multiple of the alphabet size below 256, to avoid modulo bias
	txnIDMaxByte = 256 - 256%len(txnIDAlphabet)
)

// TxnIDGenerator creates transaction ids from a source of random bytes
type TxnIDGenerator struct {
	rand   io.Reader
	prefix string
}

// NewTxnIDGenerator creates a generator reading from r
//
// If r is nil, crypto/rand is used.
func NewTxnIDGenerator(r io.Reader, prefix string) *TxnIDGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &TxnIDGenerator{rand: r, prefix: prefix}
}

// Generate returns the prefix followed by TxnIDLength random alphanumeric
// characters, in upper case
func (g *TxnIDGenerator) Generate() (string, error) {
	id := make([]byte, 0, len(g.prefix)+TxnIDLength)
	id = append(id, g.prefix...)
	buf := make([]byte, TxnIDLength)
	for len(id) < cap(id) {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= txnIDMaxByte {
				continue
			}
			id = append(id, txnIDAlphabet[int(b)%len(txnIDAlphabet)])
			if len(id) == cap(id) {
				break
			}
		}
	}
	return strings.ToUpper(string(id)), nil
}

// ValidTxnID returns true if id has the form of a generated id with the given prefix
func ValidTxnID(id, prefix string) bool {
	prefix = strings.ToUpper(prefix)
	if !strings.HasPrefix(id, prefix) || len(id) != len(prefix)+TxnIDLength {
		return false
	}
	for _, c := range id[len(prefix):] {
		if !strings.ContainsRune(txnIDAlphabet, c) {
			return false
		}
	}
	return true
}
