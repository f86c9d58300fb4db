package flashcard

import (
	"iter"
	"time"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
)

// MaxReviewDays bounds how far ahead a review can be scheduled.
const MaxReviewDays = 3650

// ScheduleReview sets the card's review date to days after now's calendar day.
func ScheduleReview(card models.Flashcard, days int, now time.Time) (models.Flashcard, error) {
	if days < 1 || days > MaxReviewDays {
		return card, errors.NewValidationError("days", "must be between 1 and 3650")
	}
	d := models.NewDate(now.AddDate(0, 0, days))
	card.ReviewDate = &d
	return card, nil
}

// IsDue reports whether the card should be reviewed on now's day. Cards
// without a review date are always due.
func IsDue(card models.Flashcard, now time.Time) bool {
	if card.ReviewDate == nil {
		return true
	}
	return !card.ReviewDate.After(models.NewDate(now).Time)
}

// DueCards filters seq down to the cards due on now's day.
func DueCards(seq iter.Seq2[int, models.Flashcard], now time.Time) iter.Seq2[int, models.Flashcard] {
	return func(yield func(int, models.Flashcard) bool) {
		for i, c := range seq {
			if IsDue(c, now) && !yield(i, c) {
				return
			}
		}
	}
}
