package services

import (
	"context"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
	"github.com/vytor/flashstudy/internal/session"
)

// ProfileService handles profile-related business logic
type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, username string, profile models.Profile) (*models.Profile, error)
	GetTheme(ctx context.Context, sess *session.Session) models.Theme
	UpdateTheme(ctx context.Context, sess *session.Session, update models.Theme) (models.Theme, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile")
	log.Debug("getting profile: username=%s", username)

	profile, err := s.profileRepo.Get(ctx, username)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, appError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", username)
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, username string, profile models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile")
	log.Debug("updating profile: username=%s", username)

	if err := validate(profile); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, username, profile); err != nil {
		log.Error("failed to save profile: %v", err)
		return nil, appError(err)
	}
	return &profile, nil
}

func (s *profileService) GetTheme(ctx context.Context, sess *session.Session) models.Theme {
	logger.FromContext(ctx).WithPrefix("profile").Debug("getting theme: username=%s", sess.Username)

	var theme models.Theme
	_ = sess.Do(func(sess *session.Session) error {
		theme = sess.Theme
		return nil
	})
	return theme
}

func (s *profileService) UpdateTheme(ctx context.Context, sess *session.Session, update models.Theme) (models.Theme, error) {
	log := logger.FromContext(ctx).WithPrefix("profile")
	log.Debug("updating theme: username=%s", sess.Username)

	if err := validate(update); err != nil {
		return models.Theme{}, err
	}
	var theme models.Theme
	_ = sess.Do(func(sess *session.Session) error {
		sess.Theme = sess.Theme.Merge(update)
		theme = sess.Theme
		return nil
	})
	return theme, nil
}
