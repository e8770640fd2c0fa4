package sideline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemIDFromURL(t *testing.T) {
	assert.Equal(t, "12345", ItemIDFromURL("/gear/12345-bauer-vapor"))
	assert.Equal(t, "987", ItemIDFromURL("https://sidelineswap.com/gear/987"))
	assert.Equal(t, "", ItemIDFromURL("/shop/someuser"))
	assert.Equal(t, "", ItemIDFromURL(""))
}

func TestMatchesHockeyKeywords(t *testing.T) {
	assert.True(t, MatchesHockeyKeywords("Bauer Vapor Hyperlite"))
	assert.True(t, MatchesHockeyKeywords("CCM Ribcor Trigger 7"))
	assert.True(t, MatchesHockeyKeywords("Senior hockey stick 77 flex"))
	assert.True(t, MatchesHockeyKeywords("TRUE Catalyst 9X"))
	assert.False(t, MatchesHockeyKeywords("Nike running shoes"))
	assert.False(t, MatchesHockeyKeywords(""))
}

func TestExtractPrice(t *testing.T) {
	assert.Equal(t, "$149.99", ExtractPrice("Now only $149.99!"))
	assert.Equal(t, "$1,299.00", ExtractPrice("$1,299.00"))
	assert.Equal(t, PriceUnknown, ExtractPrice("contact seller"))
	assert.Equal(t, PriceUnknown, ExtractPrice(""))
}

func TestTruncateDescription(t *testing.T) {
	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, TruncateDescription(string(long)), MaxDescriptionLength)
	assert.Equal(t, "short", TruncateDescription("  short  "))
}

func TestDedupeByItemID(t *testing.T) {
	listings := []Listing{
		{ItemID: "1", Title: "first"},
		{ItemID: "2", Title: "second"},
		{ItemID: "1", Title: "duplicate of first"},
	}
	out := dedupeByItemID(listings)
	assert.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "second", out[1].Title)
}

func TestUpscaleImageURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/image/upload/w_800,h_800/v1/item.jpg",
		upscaleImageURL("https://cdn.example.com/image/upload/w_150,h_150/v1/item.jpg"),
	)
	assert.Equal(t,
		"https://cdn.example.com/item.jpg",
		upscaleImageURL("https://cdn.example.com/item.jpg"),
	)
}
