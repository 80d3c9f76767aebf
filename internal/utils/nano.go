package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// IDLength is the length of every generated primary key. Seeded rows use fixed ids of
// the same length.
const IDLength = 32

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func NanoID() string {
	return NanoIDSize(IDLength)
}

// NanoIDSize generates a shorter id, mostly for test fixtures. Sizes outside
// (0, IDLength] fall back to IDLength.
func NanoIDSize(size int) string {
	if size <= 0 || size > IDLength {
		size = IDLength
	}

	return gonanoid.MustGenerate(idAlphabet, size)
}
