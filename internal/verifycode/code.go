// Package verifycode generates and validates human-shareable verification
// codes. The checksum makes forged codes statistically detectable without a
// database lookup; it is not a substitute for confirming the code was
// actually issued - callers must still cross-check persisted records for
// authoritative verification.
package verifycode

import (
	"crypto/rand"
	"log/slog"
	mrand "math/rand/v2"
	"strings"
)

const (
	charset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bodyLength = 14
	codeLength = 16
	groupSize  = 4
)

// Generator produces checksum-protected verification codes.
type Generator struct {
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger attaches a structured logger used to surface the weak-randomness
// fallback path.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New constructs a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a fresh code formatted as XXXX-XXXX-XXXX-XXXX: fourteen
// random alphanumeric characters followed by a two-character checksum,
// grouped into dash-separated blocks of four.
//
// Randomness comes from crypto/rand; if that source fails the generator
// falls back to math/rand, logged loudly at WARN because it weakens the
// unforgeability of fresh codes without changing the function signature.
func (g *Generator) Generate() string {
	body := make([]byte, bodyLength)
	buf := make([]byte, bodyLength)
	if _, err := rand.Read(buf); err != nil {
		if g.logger != nil {
			g.logger.Warn("crypto/rand unavailable, falling back to weak pseudo-random source",
				"error", err,
			)
		}
		for i := range buf {
			buf[i] = byte(mrand.IntN(256))
		}
	}
	for i, b := range buf {
		body[i] = charset[int(b)%len(charset)]
	}

	raw := string(body) + checksum(string(body))
	return format(raw)
}

// Validate strips formatting, checks the length, recomputes the checksum over
// the body, and compares it to the final two characters. Malformed codes are
// ordinary false returns, never errors.
func Validate(code string) bool {
	raw := strings.ReplaceAll(code, "-", "")
	if len(raw) != codeLength {
		return false
	}
	for _, r := range raw {
		if !strings.ContainsRune(charset, r) {
			return false
		}
	}
	body := raw[:bodyLength]
	return checksum(body) == raw[bodyLength:]
}

// checksum sums the character codes of the body, reduces modulo 36, and maps
// the result to 0-9A-Z, zero-padded to two characters.
func checksum(body string) string {
	sum := 0
	for i := 0; i < len(body); i++ {
		sum += int(body[i])
	}
	const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return string([]byte{'0', digits[sum%36]})
}

func format(raw string) string {
	groups := make([]string, 0, len(raw)/groupSize)
	for i := 0; i < len(raw); i += groupSize {
		groups = append(groups, raw[i:i+groupSize])
	}
	return strings.Join(groups, "-")
}
