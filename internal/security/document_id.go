package security

import (
	"crypto/rand"
	"fmt"
)

const documentIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const DocumentIDLength = 20

// Bytes at or above this bound are dropped so every symbol is equally likely.
const documentIDByteBound = 256 - 256%len(documentIDAlphabet)

// NewDocumentID returns a random identifier in the shape of document store auto IDs.
func NewDocumentID() (string, error) {
	id := make([]byte, 0, DocumentIDLength)
	buffer := make([]byte, DocumentIDLength*2)
	for len(id) < DocumentIDLength {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, value := range buffer {
			if int(value) >= documentIDByteBound {
				continue
			}
			id = append(id, documentIDAlphabet[int(value)%len(documentIDAlphabet)])
			if len(id) == DocumentIDLength {
				break
			}
		}
	}
	return string(id), nil
}
