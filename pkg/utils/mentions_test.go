package utils_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/agorahq/agora/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestParseMentions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"single", "thanks @alice for the tip", []string{"alice"}},
		{"multiple", "@alice and @bob_42 should see this", []string{"alice", "bob_42"}},
		{"deduplicated", "@alice @alice @alice", []string{"alice"}},
		{"too short", "hi @ab there", nil},
		{"none", "no mentions here", nil},
		{"email is not a mention", "reach me at a@example.com", []string{"example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, utils.ParseMentions(tt.content))
		})
	}
}

func TestParseMentionsCap(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 20 {
		fmt.Fprintf(&sb, "@user%02d ", i)
	}

	mentions := utils.ParseMentions(sb.String())
	assert.Len(t, mentions, utils.MaxMentions)
	assert.Equal(t, "user00", mentions[0])
}
