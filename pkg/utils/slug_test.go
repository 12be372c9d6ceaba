package utils_test

import (
	"strings"
	"testing"

	"github.com/agorahq/agora/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  How do I use Go generics?  ", "how-do-i-use-go-generics"},
		{"C++ vs. Rust!!!", "c-vs-rust"},
		{"already-a-slug", "already-a-slug"},
		{"---", "untitled"},
		{"", "untitled"},
		{"ÜMLAUT über alles", "mlaut-ber-alles"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, utils.Slugify(tt.input), "input=%q", tt.input)
	}
}

func TestSlugifyLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 50)
	slug := utils.Slugify(long)
	assert.LessOrEqual(t, len(slug), utils.MaxSlugLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestSlugWithSuffix(t *testing.T) {
	t.Parallel()

	first := utils.SlugWithSuffix("hello-world")
	second := utils.SlugWithSuffix("hello-world")

	assert.True(t, strings.HasPrefix(first, "hello-world-"))
	assert.NotEqual(t, first, second)
}
