package randid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"length 0", 0},
		{"length 1", 1},
		{"length 6", 6},
		{"length 16", 16},
	}

	pattern := regexp.MustCompile(`^[a-z0-9]*$`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Generate(tt.length)

			assert.Len(t, result, tt.length)
			assert.True(t, pattern.MatchString(result), "Generate(%d) = %q, want only [a-z0-9]", tt.length, result)
		})
	}
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		seen[Generate(8)] = true
	}

	// 36^8 combinations; near-total collisions would mean broken randomness
	assert.GreaterOrEqual(t, len(seen), 90)
}
