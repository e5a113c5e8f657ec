package rag

import (
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		cfg            ChunkerConfig
		expectedChunks []string
	}{
		{
			name:           "empty input",
			text:           "",
			cfg:            DefaultChunkerConfig(),
			expectedChunks: nil,
		},
		{
			name:           "whitespace only",
			text:           "   \n\t   ",
			cfg:            DefaultChunkerConfig(),
			expectedChunks: nil,
		},
		{
			name: "single sentence fits",
			text: "Library hours are 8am to 10pm.",
			cfg: ChunkerConfig{
				MaxTokens:     20,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Library hours are 8am to 10pm."},
		},
		{
			name: "two sentences fit in one chunk",
			text: "Hello world. How are you?",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Hello world. How are you?"},
		},
		{
			name: "split by sentence without overlap",
			text: "First sentence. Second sentence.",
			cfg: ChunkerConfig{
				MaxTokens:     3,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"First sentence.",
				"Second sentence.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkText(tt.text, tt.cfg)
			if len(got) != len(tt.expectedChunks) {
				t.Fatalf("got %d chunks, want %d: %#v", len(got), len(tt.expectedChunks), got)
			}
			for i, c := range got {
				if c.Text != tt.expectedChunks[i] {
					t.Errorf("chunk %d = %q, want %q", i, c.Text, tt.expectedChunks[i])
				}
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
			}
		})
	}
}

func TestChunkText_Overlap(t *testing.T) {
	text := "Sentence one. Sentence two. Sentence three. Sentence four."
	chunks := ChunkText(text, ChunkerConfig{MaxTokens: 8, OverlapTokens: 4})

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// Each follow-up chunk starts with the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		first := strings.SplitN(chunks[i].Text, ".", 2)[0] + "."
		if !strings.Contains(chunks[i-1].Text, first) {
			t.Errorf("chunk %d does not overlap predecessor: %q / %q", i, chunks[i-1].Text, chunks[i].Text)
		}
	}
}

func TestChunkText_ParagraphSoftWrap(t *testing.T) {
	text := "Line one continues\non the next line. Second paragraph follows.\n\nThird one."
	chunks := ChunkText(text, ChunkerConfig{MaxTokens: 100, OverlapTokens: 0})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Text, "\n") {
		t.Errorf("soft wraps should be collapsed: %q", chunks[0].Text)
	}
}
