package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOptional(t *testing.T) {
	assert.Equal(t, "", NormalizeOptional(""))
	assert.Equal(t, "", NormalizeOptional("null"))
	assert.Equal(t, "", NormalizeOptional("  null  "))
	assert.Equal(t, "", NormalizeOptional("   "))
	assert.Equal(t, "Email", NormalizeOptional(" Email "))
	// only the exact sentinel folds, not values containing it
	assert.Equal(t, "nullable", NormalizeOptional("nullable"))
}

func TestParseCategory(t *testing.T) {
	got, ok := ParseCategory("Software")
	assert.True(t, ok)
	assert.Equal(t, TicketCategorySoftware, got)

	got, ok = ParseCategory("null")
	assert.True(t, ok)
	assert.Equal(t, TicketCategory(""), got)

	_, ok = ParseCategory("Gardening")
	assert.False(t, ok)
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"", "Lowest", "Low", "Medium", "High", "Highest"} {
		_, ok := ParsePriority(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParsePriority("Critical")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"", "TO DO", "IN PROGRESS", "PENDING", "DONE"} {
		_, ok := ParseStatus(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseStatus("CLOSED")
	assert.False(t, ok)
}

func TestParseSource(t *testing.T) {
	for _, valid := range []string{"", "Email", "WhatsApp", "Chatbot"} {
		_, ok := ParseSource(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseSource("Fax")
	assert.False(t, ok)
}
