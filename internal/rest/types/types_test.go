package types_test

import (
	"testing"
	"time"

	dbTypes "github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/rest/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicCursorRoundTrip(t *testing.T) {
	t.Parallel()

	cursor := &dbTypes.TopicCursor{
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Score:     42,
		Views:     1000,
		ID:        7,
	}

	token := types.EncodeTopicCursor(cursor)
	require.NotEmpty(t, token)

	decoded, err := types.DecodeTopicCursor(token)
	require.NoError(t, err)
	assert.Equal(t, cursor.ID, decoded.ID)
	assert.Equal(t, cursor.Score, decoded.Score)
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
}

func TestTopicCursorEmpty(t *testing.T) {
	t.Parallel()

	// Empty token means first page
	decoded, err := types.DecodeTopicCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)

	// Nil cursor means no next page
	assert.Empty(t, types.EncodeTopicCursor(nil))
}

func TestTopicCursorInvalid(t *testing.T) {
	t.Parallel()

	_, err := types.DecodeTopicCursor("!!!not-base64!!!")
	assert.Error(t, err)

	_, err = types.DecodeTopicCursor("bm90LWpzb24")
	assert.Error(t, err)
}

func TestResponseEnvelope(t *testing.T) {
	t.Parallel()

	ok := types.OK(map[string]int{"id": 1})
	assert.True(t, ok.Success)
	assert.NotNil(t, ok.Data)
	assert.Nil(t, ok.Error)

	fail := types.Fail("topic not found")
	assert.False(t, fail.Success)
	assert.Nil(t, fail.Data)
	require.NotNil(t, fail.Error)
	assert.Equal(t, "topic not found", fail.Error.Message)
}
