package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		wantLens  []int
	}{
		{"empty text yields one empty chunk", "", 1700, []int{0}},
		{"short text fits in one chunk", "hello", 1700, []int{5}},
		{"exact fit", strings.Repeat("A", 1700), 1700, []int{1700}},
		{"long text splits", strings.Repeat("A", 5000), 1700, []int{1700, 1700, 1600}},
		{"boundary plus one", strings.Repeat("A", 1701), 1700, []int{1700, 1}},
		{"tiny max length", "abcdef", 2, []int{2, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(tt.text, tt.maxLength)
			require.Len(t, chunks, len(tt.wantLens))
			for i, want := range tt.wantLens {
				assert.Len(t, chunks[i], want)
			}
			assert.Equal(t, tt.text, strings.Join(chunks, ""))
		})
	}
}

func TestChunk_MultibyteSafe(t *testing.T) {
	text := strings.Repeat("é", 10)
	chunks := Chunk(text, 3)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		// No chunk may split a rune.
		assert.True(t, len([]rune(c)) <= 3)
		assert.Equal(t, c, string([]rune(c)))
	}
}
