package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	defaultAlphabet string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultSize     int    = 22 // 22 * 6 = 132 bits (uuid is 128 bits) of entropy
	maxAlphabetSize int    = 255
	minAlphabetSize int    = 8
)

var (
	ErrAlphabetTooLong  = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetNotASCII = errors.New("alphabet must contain only ASCII characters")
	ErrInvalidSize      = errors.New("id size must be positive")
)

// IDGenerator produces random URL-safe ids of a fixed size.
// Used for session token ids (jti).
type IDGenerator struct {
	alphabet string
	size     int
	mask     int
	step     int
}

type IDOption func(*IDGenerator)

func WithAlphabet(alphabet string) IDOption {
	return func(g *IDGenerator) { g.alphabet = alphabet }
}

func WithSize(size int) IDOption {
	return func(g *IDGenerator) { g.size = size }
}

func NewIDGenerator(opts ...IDOption) (*IDGenerator, error) {
	g := &IDGenerator{alphabet: defaultAlphabet, size: defaultSize}
	for _, opt := range opts {
		opt(g)
	}

	// Generate indexes by byte position
	for i := 0; i < len(g.alphabet); i++ {
		if g.alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}
	if len(g.alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(g.alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}
	if g.size <= 0 {
		return nil, ErrInvalidSize
	}

	g.mask = maskFor(len(g.alphabet))
	g.step = int(math.Ceil(1.6 * float64(g.mask*g.size) / float64(len(g.alphabet))))
	return g, nil
}

// maskFor returns the smallest 2^n-1 covering every alphabet index.
func maskFor(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return maxAlphabetSize
}

func (g *IDGenerator) Generate() (string, error) {
	id := make([]byte, g.size)
	buffer := make([]byte, g.step)

	for position := 0; position < g.size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// rejection sampling keeps the distribution uniform
		for i := 0; i < g.step && position < g.size; i++ {
			index := int(buffer[i]) & g.mask
			if index < len(g.alphabet) {
				id[position] = g.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
