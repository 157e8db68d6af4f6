// Package reference generates short booking references (PNRs).
package reference

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Domenick1991/airfare/internal/domain"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrGenerationExhausted = errors.New("failed to generate unique reference after multiple attempts")

var errInvalidLength = fmt.Errorf("%w: reference length must be >= 1", domain.ErrValidation)

// ExistsFunc reports whether a candidate is already in use.
type ExistsFunc func(candidate string) (bool, error)

// Generate returns a random reference of the given length that exists does
// not report as taken. A failing exists check counts as a used attempt.
func Generate(exists ExistsFunc, length, maxAttempts int) (string, error) {
	return generate(exists, "", length, maxAttempts)
}

func generate(exists ExistsFunc, prefix string, length, maxAttempts int) (string, error) {
	if length < 1 {
		return "", errInvalidLength
	}
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		body, err := random(length)
		if err != nil {
			return "", err
		}
		candidate := prefix + body
		taken, err := exists(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if !taken {
			return candidate, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: last check error: %v", ErrGenerationExhausted, lastErr)
	}
	return "", ErrGenerationExhausted
}

func random(length int) (string, error) {
	n := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

// Generator carries a fixed reference shape.
type Generator struct {
	length   int
	attempts int
	prefix   string
}

type Option func(*Generator)

// WithPrefix prepends an upper-cased carrier code to every reference.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		g.prefix = strings.ToUpper(strings.TrimSpace(prefix))
	}
}

func NewGenerator(length, attempts int, opts ...Option) *Generator {
	g := &Generator{length: length, attempts: attempts}
	if g.attempts <= 0 {
		g.attempts = 1
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Candidate returns a single unchecked reference.
func (g *Generator) Candidate() (string, error) {
	if g.length < 1 {
		return "", errInvalidLength
	}
	body, err := random(g.length)
	if err != nil {
		return "", err
	}
	return g.prefix + body, nil
}

// Generate returns a reference that exists reports as free.
func (g *Generator) Generate(exists ExistsFunc) (string, error) {
	return generate(exists, g.prefix, g.length, g.attempts)
}

func (g *Generator) Attempts() int {
	return g.attempts
}
