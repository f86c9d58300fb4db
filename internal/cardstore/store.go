// Package cardstore holds the ordered, in-memory flashcard collection of one
// logged-in user. A card's identity is its index; edits keep positions and
// deletes shift later cards down by one.
//
// A Store is not safe for concurrent use. The session that owns it
// serializes access.
package cardstore

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
)

// Store is an ordered sequence of flashcards.
type Store struct {
	cards []models.Flashcard
}

// New returns a store holding a copy of cards.
func New(cards ...models.Flashcard) *Store {
	s := &Store{}
	s.Replace(cards)
	return s
}

// Len returns the number of cards.
func (s *Store) Len() int {
	return len(s.cards)
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.DefaultCategory
	}
	return category
}

func validateText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, "cannot be empty")
	}
	return nil
}

// Add appends a new card. An empty category becomes models.DefaultCategory.
func (s *Store) Add(question, answer, category string) (models.Flashcard, error) {
	if err := validateText("question", question); err != nil {
		return models.Flashcard{}, err
	}
	if err := validateText("answer", answer); err != nil {
		return models.Flashcard{}, err
	}
	card := models.Flashcard{
		Question: question,
		Answer:   answer,
		Category: normalizeCategory(category),
	}
	s.cards = append(s.cards, card)
	return card, nil
}

// Append adds already-built cards at the end, as import does.
func (s *Store) Append(cards ...models.Flashcard) {
	for _, c := range cards {
		c.Category = normalizeCategory(c.Category)
		s.cards = append(s.cards, c)
	}
}

// Replace swaps the whole content, as load does.
func (s *Store) Replace(cards []models.Flashcard) {
	s.cards = make([]models.Flashcard, 0, len(cards))
	s.Append(cards...)
}

// Clear drops every card.
func (s *Store) Clear() {
	s.cards = nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.cards) {
		return errors.NewNotFoundError("flashcard", index)
	}
	return nil
}

// Get returns the card at index.
func (s *Store) Get(index int) (models.Flashcard, error) {
	if err := s.checkIndex(index); err != nil {
		return models.Flashcard{}, err
	}
	return s.cards[index], nil
}

// Edit changes the given fields of the card at index. A question or answer
// set to blank is rejected; a blank category resets to the default. Nothing
// changes when validation fails.
func (s *Store) Edit(index int, edit models.CardEdit) (models.Flashcard, error) {
	if err := s.checkIndex(index); err != nil {
		return models.Flashcard{}, err
	}
	card := s.cards[index]
	if edit.Question != nil {
		if err := validateText("question", *edit.Question); err != nil {
			return models.Flashcard{}, err
		}
		card.Question = *edit.Question
	}
	if edit.Answer != nil {
		if err := validateText("answer", *edit.Answer); err != nil {
			return models.Flashcard{}, err
		}
		card.Answer = *edit.Answer
	}
	if edit.Category != nil {
		card.Category = normalizeCategory(*edit.Category)
	}
	s.cards[index] = card
	return card, nil
}

// Set overwrites the card at index. Used after scheduling a review.
func (s *Store) Set(index int, card models.Flashcard) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.cards[index] = card
	return nil
}

// Delete removes the card at index.
func (s *Store) Delete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.cards = slices.Delete(s.cards, index, index+1)
	return nil
}

// All yields every card with its index, in insertion order. The sequence
// reads the store when iterated, so it can be ranged over more than once.
func (s *Store) All() iter.Seq2[int, models.Flashcard] {
	return func(yield func(int, models.Flashcard) bool) {
		for i, c := range s.cards {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Where yields the cards matching keep.
func (s *Store) Where(keep func(models.Flashcard) bool) iter.Seq2[int, models.Flashcard] {
	return func(yield func(int, models.Flashcard) bool) {
		for i, c := range s.cards {
			if keep(c) && !yield(i, c) {
				return
			}
		}
	}
}

// Search yields cards whose question, answer or category contains term,
// ignoring case. An empty term matches every card.
func (s *Store) Search(term string) iter.Seq2[int, models.Flashcard] {
	term = strings.ToLower(term)
	return s.Where(func(c models.Flashcard) bool {
		return strings.Contains(strings.ToLower(c.Question), term) ||
			strings.Contains(strings.ToLower(c.Answer), term) ||
			strings.Contains(strings.ToLower(c.Category), term)
	})
}

// FilterByCategory yields cards whose category equals category, ignoring case.
func (s *Store) FilterByCategory(category string) iter.Seq2[int, models.Flashcard] {
	category = strings.TrimSpace(category)
	return s.Where(func(c models.Flashcard) bool {
		return strings.EqualFold(c.Category, category)
	})
}

// Categories returns the distinct categories, sorted.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	for _, c := range s.cards {
		seen[c.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of the cards.
func (s *Store) Snapshot() []models.Flashcard {
	return slices.Clone(s.cards)
}

// Collect gathers the cards of a sequence, dropping indexes.
func Collect(seq iter.Seq2[int, models.Flashcard]) []models.Flashcard {
	var out []models.Flashcard
	for _, c := range seq {
		out = append(out, c)
	}
	return out
}

// Indexed is a card together with its position in the store.
type Indexed struct {
	Index int              `json:"index"`
	Card  models.Flashcard `json:"card"`
}

// CollectIndexed gathers the cards of a sequence with their indexes.
func CollectIndexed(seq iter.Seq2[int, models.Flashcard]) []Indexed {
	out := []Indexed{}
	for i, c := range seq {
		out = append(out, Indexed{Index: i, Card: c})
	}
	return out
}
