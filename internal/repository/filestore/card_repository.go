package filestore

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/vytor/flashstudy/internal/cardio"
	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type cardRepository struct {
	dir *Dir
}

// NewCardRepository stores each user's collection in <user>_flashcards.json.
func NewCardRepository(dir *Dir) repository.CardRepository {
	return &cardRepository{dir: dir}
}

func (r *cardRepository) Save(ctx context.Context, username string, cards []models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("saving cards: username=%s, count=%d", username, len(cards))

	path, err := r.dir.userPath(username, cardsSuffix)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := cardio.Encode(&buf, cardio.JSON, cards); err != nil {
		log.Error("failed to encode cards: %v", err)
		return err
	}

	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()
	if err := writeFile(path, buf.Bytes()); err != nil {
		log.Error("failed to write cards: %v", err)
		return apperrors.NewIOFailureError("save cards", err)
	}
	return nil
}

func (r *cardRepository) Load(ctx context.Context, username string) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("loading cards: username=%s", username)

	path, err := r.dir.userPath(username, cardsSuffix)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no saved cards: username=%s", username)
		return nil, apperrors.NewNotFoundError("saved cards", username)
	}
	if err != nil {
		log.Error("failed to open cards: %v", err)
		return nil, apperrors.NewIOFailureError("load cards", err)
	}
	defer f.Close()

	cards, err := cardio.Decode(f, cardio.JSON)
	if err != nil {
		log.Error("failed to decode cards: %v", err)
		return nil, err
	}
	log.Debug("loaded %d cards", len(cards))
	return cards, nil
}
