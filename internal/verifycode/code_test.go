package verifycode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FormatAndValidity(t *testing.T) {
	g := New()

	code := g.Generate()
	require.Len(t, code, 19) // 16 chars + 3 dashes
	parts := strings.Split(code, "-")
	require.Len(t, parts, 4)
	for _, p := range parts {
		assert.Len(t, p, 4)
	}

	assert.True(t, Validate(code))
}

func TestGenerate_Uniqueness(t *testing.T) {
	g := New()

	first := g.Generate()
	second := g.Generate()

	assert.NotEqual(t, first, second)
	assert.True(t, Validate(first))
	assert.True(t, Validate(second))
}

func TestValidate_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"too short", "ABCD-EFGH"},
		{"too long", "ABCD-EFGH-IJKL-MNOP-QRST"},
		{"lowercase", "abcd-efgh-ijkl-mnop"},
		{"punctuation", "ABCD-EFGH-IJKL-MN!?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Validate(tt.code))
		})
	}
}

// Checksum soundness: a single-character substitution shifts the character
// code sum by at most 42, so it only survives validation when the shift is
// exactly 36. Aggregated over many codes the detection rate stays above 98%.
func TestValidate_DetectsSingleCharacterEdits(t *testing.T) {
	g := New()

	mutations, detected := 0, 0
	for range 100 {
		raw := strings.ReplaceAll(g.Generate(), "-", "")
		for pos := 0; pos < len(raw); pos++ {
			for _, c := range charset {
				if byte(c) == raw[pos] {
					continue
				}
				mutated := raw[:pos] + string(c) + raw[pos+1:]
				mutations++
				if !Validate(mutated) {
					detected++
				}
			}
		}
	}

	require.Positive(t, mutations)
	rate := float64(detected) / float64(mutations)
	assert.GreaterOrEqual(t, rate, 0.98, "detected %d of %d single-character edits", detected, mutations)
}

func TestValidate_AcceptsUnformattedBody(t *testing.T) {
	g := New()
	raw := strings.ReplaceAll(g.Generate(), "-", "")
	assert.True(t, Validate(raw))
}
