package filestore

import (
	"context"

	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type profileRepository struct {
	dir *Dir
}

// NewProfileRepository stores each profile in <user>_profile.json.
func NewProfileRepository(dir *Dir) repository.ProfileRepository {
	return &profileRepository{dir: dir}
}

func (r *profileRepository) Get(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: username=%s", username)

	path, err := r.dir.userPath(username, profileSuffix)
	if err != nil {
		return nil, err
	}

	var p models.Profile
	found, err := readJSON(path, &p)
	if err != nil {
		log.Error("failed to read profile: %v", err)
		return nil, apperrors.NewIOFailureError("read profile", err)
	}
	if !found {
		log.Debug("profile not found: username=%s", username)
		return nil, nil
	}
	return &p, nil
}

func (r *profileRepository) Save(ctx context.Context, username string, profile models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("saving profile: username=%s", username)

	path, err := r.dir.userPath(username, profileSuffix)
	if err != nil {
		return err
	}

	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()
	if err := writeJSON(path, profile); err != nil {
		log.Error("failed to write profile: %v", err)
		return apperrors.NewIOFailureError("save profile", err)
	}
	return nil
}
