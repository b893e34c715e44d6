package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkPublic(t *testing.T) {
	l := Link{
		ID:        "a",
		ProfileID: "owner",
		Title:     "Instagram",
		URL:       "https://instagram.com/x",
		Icon:      "instagram",
		Clicks:    3,
		IsActive:  true,
		Position:  2,
	}

	assert.Equal(t, PublicLink{
		ID:       "a",
		Title:    "Instagram",
		URL:      "https://instagram.com/x",
		Icon:     "instagram",
		Clicks:   3,
		Position: 2,
	}, l.Public())

	body, err := json.Marshal(l.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "owner")
	assert.Contains(t, string(body), `"icon":"instagram"`)

	l.Icon = ""
	body, err = json.Marshal(l.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "icon")
}
