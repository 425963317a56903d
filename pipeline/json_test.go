package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeModelJSON(t *testing.T) {
	type payload struct {
		RoomType string `json:"room_type"`
	}

	t.Run("bare object", func(t *testing.T) {
		var p payload
		require.NoError(t, decodeModelJSON(`{"room_type": "bedroom"}`, &p))
		assert.Equal(t, "bedroom", p.RoomType)
	})

	t.Run("fenced code block", func(t *testing.T) {
		var p payload
		require.NoError(t, decodeModelJSON("```json\n{\"room_type\": \"kitchen\"}\n```", &p))
		assert.Equal(t, "kitchen", p.RoomType)
	})

	t.Run("bare fence", func(t *testing.T) {
		var p payload
		require.NoError(t, decodeModelJSON("```\n{\"room_type\": \"office\"}\n```", &p))
		assert.Equal(t, "office", p.RoomType)
	})

	t.Run("object embedded in prose", func(t *testing.T) {
		var p payload
		text := "Here is the analysis you asked for:\n{\"room_type\": \"living room\"}\nLet me know if you need more."
		require.NoError(t, decodeModelJSON(text, &p))
		assert.Equal(t, "living room", p.RoomType)
	})

	t.Run("empty", func(t *testing.T) {
		var p payload
		assert.Error(t, decodeModelJSON("   ", &p))
	})

	t.Run("no json at all", func(t *testing.T) {
		var p payload
		assert.Error(t, decodeModelJSON("I could not analyze the image.", &p))
	})

	t.Run("malformed braces", func(t *testing.T) {
		var p payload
		assert.Error(t, decodeModelJSON(`{"room_type": number}`, &p))
	})
}
