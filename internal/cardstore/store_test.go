package cardstore_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/cardstore"
	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
)

func ptr(s string) *string { return &s }

func sampleStore(t *testing.T) *cardstore.Store {
	t.Helper()
	s := cardstore.New()
	_, err := s.Add("What is a cat?", "A small feline", "Animals")
	require.NoError(t, err)
	_, err = s.Add("2+2", "4", "Math")
	require.NoError(t, err)
	return s
}

func TestAdd_DefaultsCategory(t *testing.T) {
	s := cardstore.New()

	card, err := s.Add("Capital of France?", "Paris", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategory, card.Category)
	assert.Nil(t, card.ReviewDate)
	assert.Equal(t, 1, s.Len())
}

func TestAdd_RejectsEmptyFields(t *testing.T) {
	s := cardstore.New()

	_, err := s.Add("", "answer", "x")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = s.Add("question", "   ", "x")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	assert.Equal(t, 0, s.Len())
}

func TestAdd_AllowsDuplicates(t *testing.T) {
	s := cardstore.New()
	for i := 0; i < 2; i++ {
		_, err := s.Add("q", "a", "c")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Len())
}

func TestEdit(t *testing.T) {
	s := sampleStore(t)

	card, err := s.Edit(1, models.CardEdit{Answer: ptr("four"), Category: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "2+2", card.Question)
	assert.Equal(t, "four", card.Answer)
	assert.Equal(t, models.DefaultCategory, card.Category)

	// Position is kept.
	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, card, got)
}

func TestEdit_InvalidLeavesCardUntouched(t *testing.T) {
	s := sampleStore(t)
	before, _ := s.Get(0)

	_, err := s.Edit(0, models.CardEdit{Question: ptr("changed"), Answer: ptr("")})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	after, _ := s.Get(0)
	assert.Equal(t, before, after)
}

func TestEditDelete_OutOfBounds(t *testing.T) {
	s := sampleStore(t)

	for _, idx := range []int{-1, 2, 100} {
		_, err := s.Edit(idx, models.CardEdit{Question: ptr("x")})
		assert.True(t, errors.Is(err, apperrors.ErrNotFound), "edit index %d", idx)

		err = s.Delete(idx)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound), "delete index %d", idx)
	}
	assert.Equal(t, 2, s.Len())
}

func TestDelete_ShiftsLaterCards(t *testing.T) {
	s := sampleStore(t)
	_, _ = s.Add("third", "3", "Misc")

	require.NoError(t, s.Delete(0))

	cards := cardstore.Collect(s.All())
	require.Len(t, cards, 2)
	assert.Equal(t, "2+2", cards[0].Question)
	assert.Equal(t, "third", cards[1].Question)
}

func TestLenTracksAddsMinusDeletes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := cardstore.New()
	adds, deletes := 0, 0

	for i := 0; i < 500; i++ {
		switch rng.IntN(3) {
		case 0:
			_, err := s.Add("q", "a", "")
			require.NoError(t, err)
			adds++
		case 1:
			if err := s.Delete(rng.IntN(s.Len() + 1)); err == nil {
				deletes++
			}
		case 2:
			_, _ = s.Edit(rng.IntN(s.Len()+1), models.CardEdit{Answer: ptr("b")})
		}
	}
	assert.Equal(t, adds-deletes, s.Len())
}

func TestSearch(t *testing.T) {
	s := sampleStore(t)

	got := cardstore.CollectIndexed(s.Search("cat"))
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, "What is a cat?", got[0].Card.Question)

	// Answer and category are searched too, case-insensitively.
	assert.Len(t, cardstore.Collect(s.Search("FELINE")), 1)
	assert.Len(t, cardstore.Collect(s.Search("math")), 1)
	assert.Empty(t, cardstore.Collect(s.Search("dog")))
}

func TestSearch_IsRestartable(t *testing.T) {
	s := sampleStore(t)
	seq := s.Search("a")

	first := cardstore.Collect(seq)
	second := cardstore.Collect(seq)
	assert.Equal(t, first, second)

	// The view reads current contents.
	_, _ = s.Add("another cat", "meow", "Animals")
	assert.Len(t, cardstore.Collect(s.Search("cat")), 2)
}

func TestFilterByCategory(t *testing.T) {
	s := sampleStore(t)

	got := cardstore.Collect(s.FilterByCategory("animals"))
	require.Len(t, got, 1)
	assert.Equal(t, "Animals", got[0].Category)

	assert.Empty(t, cardstore.Collect(s.FilterByCategory("Anim")))
}

func TestCategories(t *testing.T) {
	s := sampleStore(t)
	_, _ = s.Add("3+3", "6", "Math")

	assert.Equal(t, []string{"Animals", "Math"}, s.Categories())
	assert.Empty(t, cardstore.New().Categories())
}

func TestReplaceAppendClear(t *testing.T) {
	s := sampleStore(t)

	s.Append(models.Flashcard{Question: "imported", Answer: "x"})
	assert.Equal(t, 3, s.Len())
	last, _ := s.Get(2)
	assert.Equal(t, models.DefaultCategory, last.Category)

	s.Replace([]models.Flashcard{{Question: "only", Answer: "one", Category: "C"}})
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, cardstore.CollectIndexed(s.All()))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := sampleStore(t)
	snap := s.Snapshot()
	snap[0].Question = "mutated"

	got, _ := s.Get(0)
	assert.Equal(t, "What is a cat?", got.Question)
}
