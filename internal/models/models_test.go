package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/models"
)

func TestNewDate_TruncatesToDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d := models.NewDate(time.Date(2024, 5, 17, 23, 59, 0, 0, loc))

	assert.Equal(t, "2024-05-17", d.String())
	assert.Equal(t, time.UTC, d.Location())
}

func TestFlashcardJSON_ReviewDate(t *testing.T) {
	d, err := models.ParseDate("2024-01-02")
	require.NoError(t, err)

	card := models.Flashcard{Question: "q", Answer: "a", Category: "c", ReviewDate: &d}
	b, err := json.Marshal(card)
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"q","answer":"a","category":"c","review_date":"2024-01-02"}`, string(b))

	var back models.Flashcard
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, card, back)
}

func TestFlashcardJSON_NullReviewDate(t *testing.T) {
	var card models.Flashcard
	require.NoError(t, json.Unmarshal([]byte(`{"question":"q","answer":"a","category":"c","review_date":null}`), &card))
	assert.Nil(t, card.ReviewDate)

	b, err := json.Marshal(card)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"review_date":null`)
}

func TestFlashcardJSON_BadDate(t *testing.T) {
	var card models.Flashcard
	err := json.Unmarshal([]byte(`{"question":"q","answer":"a","review_date":"tomorrow"}`), &card)
	assert.Error(t, err)
}

func TestTheme_Merge(t *testing.T) {
	got := models.DefaultTheme().Merge(models.Theme{FgColor: "#333333"})

	assert.Equal(t, "#ffffff", got.BgColor)
	assert.Equal(t, "#333333", got.FgColor)
	assert.Equal(t, "#f0f0f0", got.CardColor)
	assert.Equal(t, "#007bff", got.ButtonColor)
}
