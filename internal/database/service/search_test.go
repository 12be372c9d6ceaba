package service_test

import (
	"strings"
	"testing"

	"github.com/agorahq/agora/internal/database/service"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "golang generics", service.SanitizeQuery("  golang generics  "))
	assert.Empty(t, service.SanitizeQuery("   "))
	assert.Empty(t, service.SanitizeQuery(""))

	// Oversized queries get truncated to the cap
	long := strings.Repeat("a", service.MaxSearchQueryLength+50)
	assert.Len(t, service.SanitizeQuery(long), service.MaxSearchQueryLength)
}
