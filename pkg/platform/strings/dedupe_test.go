package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims and drops blanks",
			input: []string{"  Farmacologia Clínica ", "", "   ", "Atenção Farmacêutica"},
			want:  []string{"Farmacologia Clínica", "Atenção Farmacêutica"},
		},
		{
			name:  "keeps first occurrence",
			input: []string{"a", "b", "a", "c", "b"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "case stays significant",
			input: []string{"Foo", "foo"},
			want:  []string{"Foo", "foo"},
		},
		{
			name:  "nil passes through",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "folds case before deduping",
			input: []string{"  Farmácia Hospitalar ", "farmácia hospitalar", "FARMÁCIA HOSPITALAR"},
			want:  []string{"farmácia hospitalar"},
		},
		{
			name:  "preserves order of first occurrences",
			input: []string{"Gestão", "Vigilância", "gestão"},
			want:  []string{"gestão", "vigilância"},
		},
		{
			name:  "empty slice passes through",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrimLower(tt.input))
		})
	}
}
