// Package number issues human readable booking numbers such as HJ-20240601-7QKZ.
package number

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"hotel/shared/constant"
)

const (
	DefaultPrefix = "HJ"
	SuffixLength  = 4

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var pattern = regexp.MustCompile(`^[A-Z]{2,4}-\d{8}-[A-Z0-9]{4}$`)

// Generator produces candidate numbers. Uniqueness is verified by the store, not here.
type Generator interface {
	Next(date time.Time) (string, error)
}

type randomGenerator struct {
	prefix string
}

func NewGenerator(prefix string) Generator {
	if prefix == constant.Empty {
		prefix = DefaultPrefix
	}

	return &randomGenerator{prefix: prefix}
}

func (g *randomGenerator) Next(date time.Time) (string, error) {
	suffix := make([]byte, SuffixLength)
	limit := big.NewInt(int64(len(alphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return constant.Empty, fmt.Errorf("failed to draw booking number suffix: %w", err)
		}

		suffix[i] = alphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", g.prefix, date.Format(constant.CompactFormat), suffix), nil
}

// Valid reports whether s looks like a booking number.
func Valid(s string) bool {
	if !pattern.MatchString(s) {
		return false
	}

	_, err := time.Parse(constant.CompactFormat, s[len(s)-SuffixLength-9:len(s)-SuffixLength-1])

	return err == nil
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(date time.Time) (string, error)

func (f GeneratorFunc) Next(date time.Time) (string, error) {
	return f(date)
}
