package services

import (
	"context"
	"io"
	"iter"

	"github.com/vytor/flashstudy/internal/cardio"
	"github.com/vytor/flashstudy/internal/cardstore"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/flashcard"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
	"github.com/vytor/flashstudy/internal/session"
)

// NewCard is the input of Add.
type NewCard struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Category     string `json:"category"`
	ReviewInDays int    `json:"review_in_days"`
}

// CardFilter narrows List. Zero values match everything; set fields combine.
type CardFilter struct {
	Query    string
	Category string
	DueOnly  bool
}

// CardService handles the card collection of a session
type CardService interface {
	Add(ctx context.Context, sess *session.Session, card NewCard) (cardstore.Indexed, error)
	Edit(ctx context.Context, sess *session.Session, index int, edit models.CardEdit) (models.Flashcard, error)
	Delete(ctx context.Context, sess *session.Session, index int) error
	List(ctx context.Context, sess *session.Session, filter CardFilter) []cardstore.Indexed
	Categories(ctx context.Context, sess *session.Session) []string
	Schedule(ctx context.Context, sess *session.Session, index, days int) (models.Flashcard, error)
	Save(ctx context.Context, sess *session.Session) (int, error)
	Load(ctx context.Context, sess *session.Session) (int, error)
	Import(ctx context.Context, sess *session.Session, r io.Reader, format cardio.Format) (int, error)
	Export(ctx context.Context, sess *session.Session, w io.Writer, format cardio.Format) (int, error)
}

type cardService struct {
	cardRepo repository.CardRepository
	now      Clock
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository, now Clock) CardService {
	return &cardService{cardRepo: cardRepo, now: orNow(now)}
}

func (s *cardService) Add(ctx context.Context, sess *session.Session, in NewCard) (cardstore.Indexed, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("adding card: category=%q", in.Category)

	var out cardstore.Indexed
	err := sess.Do(func(sess *session.Session) error {
		card := models.Flashcard{Question: in.Question, Answer: in.Answer, Category: in.Category}
		if in.ReviewInDays != 0 {
			scheduled, err := flashcard.ScheduleReview(card, in.ReviewInDays, s.now())
			if err != nil {
				return err
			}
			card = scheduled
		}
		added, err := sess.Cards.Add(card.Question, card.Answer, card.Category)
		if err != nil {
			return err
		}
		added.ReviewDate = card.ReviewDate
		index := sess.Cards.Len() - 1
		if err := sess.Cards.Set(index, added); err != nil {
			return err
		}
		out = cardstore.Indexed{Index: index, Card: added}
		return nil
	})
	if err != nil {
		log.Debug("card rejected: %v", err)
		return cardstore.Indexed{}, appError(err)
	}
	return out, nil
}

func (s *cardService) Edit(ctx context.Context, sess *session.Session, index int, edit models.CardEdit) (models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("editing card: index=%d", index)

	var out models.Flashcard
	err := sess.Do(func(sess *session.Session) error {
		var err error
		out, err = sess.Cards.Edit(index, edit)
		return err
	})
	if err != nil {
		return models.Flashcard{}, appError(err)
	}
	return out, nil
}

func (s *cardService) Delete(ctx context.Context, sess *session.Session, index int) error {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("deleting card: index=%d", index)

	err := sess.Do(func(sess *session.Session) error {
		return sess.Cards.Delete(index)
	})
	if err != nil {
		return appError(err)
	}
	return nil
}

func (s *cardService) List(ctx context.Context, sess *session.Session, filter CardFilter) []cardstore.Indexed {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("listing cards: query=%q, category=%q, due_only=%t", filter.Query, filter.Category, filter.DueOnly)

	var out []cardstore.Indexed
	_ = sess.Do(func(sess *session.Session) error {
		out = cardstore.CollectIndexed(s.view(sess.Cards, filter))
		return nil
	})
	return out
}

// view composes the lazy store views selected by filter.
func (s *cardService) view(store *cardstore.Store, filter CardFilter) iter.Seq2[int, models.Flashcard] {
	seq := store.All()
	if filter.Query != "" {
		seq = store.Search(filter.Query)
	}
	if filter.Category != "" {
		seq = intersect(seq, store.FilterByCategory(filter.Category))
	}
	if filter.DueOnly {
		seq = flashcard.DueCards(seq, s.now())
	}
	return seq
}

// intersect yields the elements of a whose index also appears in b.
func intersect(a, b iter.Seq2[int, models.Flashcard]) iter.Seq2[int, models.Flashcard] {
	return func(yield func(int, models.Flashcard) bool) {
		keep := make(map[int]struct{})
		for i := range b {
			keep[i] = struct{}{}
		}
		for i, c := range a {
			if _, ok := keep[i]; !ok {
				continue
			}
			if !yield(i, c) {
				return
			}
		}
	}
}

func (s *cardService) Categories(ctx context.Context, sess *session.Session) []string {
	logger.FromContext(ctx).WithPrefix("cards").Debug("listing categories")

	var out []string
	_ = sess.Do(func(sess *session.Session) error {
		out = sess.Cards.Categories()
		return nil
	})
	return out
}

func (s *cardService) Schedule(ctx context.Context, sess *session.Session, index, days int) (models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("scheduling review: index=%d, days=%d", index, days)

	var out models.Flashcard
	err := sess.Do(func(sess *session.Session) error {
		card, err := sess.Cards.Get(index)
		if err != nil {
			return err
		}
		scheduled, err := flashcard.ScheduleReview(card, days, s.now())
		if err != nil {
			return err
		}
		if err := sess.Cards.Set(index, scheduled); err != nil {
			return err
		}
		out = scheduled
		return nil
	})
	if err != nil {
		return models.Flashcard{}, appError(err)
	}
	return out, nil
}

func (s *cardService) Save(ctx context.Context, sess *session.Session) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")

	var n int
	err := sess.Do(func(sess *session.Session) error {
		cards := sess.Cards.Snapshot()
		n = len(cards)
		log.Debug("saving cards: username=%s, count=%d", sess.Username, n)
		return s.cardRepo.Save(ctx, sess.Username, cards)
	})
	if err != nil {
		log.Error("failed to save cards: %v", err)
		return 0, appError(err)
	}
	return n, nil
}

func (s *cardService) Load(ctx context.Context, sess *session.Session) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")

	var n int
	err := sess.Do(func(sess *session.Session) error {
		log.Debug("loading cards: username=%s", sess.Username)
		cards, err := s.cardRepo.Load(ctx, sess.Username)
		if err != nil {
			return err
		}
		sess.Cards.Replace(cards)
		n = len(cards)
		return nil
	})
	if err != nil {
		if !errors.As(err).Is(errors.ErrNotFound) {
			log.Error("failed to load cards: %v", err)
		}
		return 0, appError(err)
	}
	return n, nil
}

func (s *cardService) Import(ctx context.Context, sess *session.Session, r io.Reader, format cardio.Format) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("importing cards: format=%s", format)

	cards, err := cardio.Decode(r, format)
	if err != nil {
		log.Debug("import rejected: %v", err)
		return 0, importError(err)
	}
	_ = sess.Do(func(sess *session.Session) error {
		sess.Cards.Append(cards...)
		return nil
	})
	log.Info("imported %d cards", len(cards))
	return len(cards), nil
}

func (s *cardService) Export(ctx context.Context, sess *session.Session, w io.Writer, format cardio.Format) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("cards")
	log.Debug("exporting cards: format=%s", format)

	var cards []models.Flashcard
	_ = sess.Do(func(sess *session.Session) error {
		cards = sess.Cards.Snapshot()
		return nil
	})
	if err := cardio.Encode(w, format, cards); err != nil {
		log.Error("failed to export cards: %v", err)
		return 0, appError(err)
	}
	return len(cards), nil
}

// importError reports unreadable uploads as a bad request; IO_FAILURE is kept
// for files the server itself stored.
func importError(err error) error {
	appErr := errors.As(err)
	if appErr.Code != errors.ErrCodeIOFailure {
		return appError(err)
	}
	msg := "invalid card file"
	if appErr.Err != nil {
		msg += ": " + appErr.Err.Error()
	}
	return errors.NewBadRequestError(msg)
}
