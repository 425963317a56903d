package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesignTips(t *testing.T) {
	tips := DesignTips("bedroom")
	assert.Len(t, tips, 5)
	assert.Contains(t, tips[0], "comfort")

	// case-insensitive, spaces normalize to underscores
	assert.Equal(t, DesignTips("living_room"), DesignTips("Living Room"))

	// unknown room types fall back to generic guidance
	assert.Equal(t, genericTips, DesignTips("greenhouse"))
	assert.Equal(t, genericTips, DesignTips(""))
}

func TestStyleRecommendations(t *testing.T) {
	recs := StyleRecommendations("Scandinavian")
	assert.Len(t, recs, 4)
	assert.Contains(t, recs[3], "hygge")

	unknown := StyleRecommendations("brutalist maximalism")
	assert.Len(t, unknown, 1)
}
