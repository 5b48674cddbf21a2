package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"quick", "fox", "jumps"}, keywords("The quick (fox) jumps!"))
	assert.Equal(t, []string{"long", "form", "posts"}, keywords("long-form posts"))
	assert.Empty(t, keywords("What is the a an?"))
}

func TestMentionsAll(t *testing.T) {
	tests := []struct {
		name     string
		document string
		query    string
		want     bool
	}{
		{"all words present", "Shipping small things every week.", "shipping things", true},
		{"case and punctuation ignored", "Hello, World!", "world hello", true},
		{"missing word", "Shipping small things", "shipping large things", false},
		{"stop-word only query", "anything", "the of and", false},
		{"question words ignored", "release notes", "what are the release notes?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mentionsAll(tt.document, tt.query))
		})
	}
}
