package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInboundMessage_ImageFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []InboundFile
		expected int
	}{
		{
			name: "画像だけが残る",
			files: []InboundFile{
				{ID: "F1", MimeType: "image/png", URLPrivate: "https://example.com/1"},
				{ID: "F2", MimeType: "text/plain", URLPrivate: "https://example.com/2"},
			},
			expected: 1,
		},
		{
			name: "IDのないファイルは除外",
			files: []InboundFile{
				{MimeType: "image/png", URLPrivate: "https://example.com/1"},
			},
			expected: 0,
		},
		{
			name: "URLのないファイルは除外",
			files: []InboundFile{
				{ID: "F1", MimeType: "image/png"},
			},
			expected: 0,
		},
		{
			name:     "添付なし",
			files:    nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &InboundMessage{Files: tt.files}
			assert.Len(t, msg.ImageFiles(), tt.expected)
		})
	}
}
