package filestore

import (
	"context"
	"path/filepath"

	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
	"github.com/vytor/flashstudy/pkg/validator"
)

type credentialRepository struct {
	dir *Dir
}

// NewCredentialRepository keeps every password hash in users.json, a map
// from username to hash.
func NewCredentialRepository(dir *Dir) repository.CredentialRepository {
	return &credentialRepository{dir: dir}
}

func (r *credentialRepository) path() string {
	return filepath.Join(r.dir.root, usersFile)
}

func (r *credentialRepository) read() (map[string]string, error) {
	users := map[string]string{}
	if _, err := readJSON(r.path(), &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = map[string]string{}
	}
	return users, nil
}

func (r *credentialRepository) Get(ctx context.Context, username string) (*models.Credential, error) {
	log := logger.FromContext(ctx).WithPrefix("credential_repo")
	log.Debug("getting credential: username=%s", username)

	users, err := r.read()
	if err != nil {
		log.Error("failed to read users: %v", err)
		return nil, apperrors.NewIOFailureError("read users", err)
	}
	hash, ok := users[username]
	if !ok {
		log.Debug("credential not found: username=%s", username)
		return nil, nil
	}
	return &models.Credential{Username: username, PasswordHash: hash}, nil
}

func (r *credentialRepository) Create(ctx context.Context, cred models.Credential) error {
	log := logger.FromContext(ctx).WithPrefix("credential_repo")
	log.Debug("creating credential: username=%s", cred.Username)

	if err := validator.ValidateVar(cred.Username, "required,username"); err != nil {
		return apperrors.NewValidationError("username", "must be non-empty and use only letters, digits, '.', '_' or '-'")
	}

	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()

	users, err := r.read()
	if err != nil {
		log.Error("failed to read users: %v", err)
		return apperrors.NewIOFailureError("read users", err)
	}
	if _, taken := users[cred.Username]; taken {
		log.Debug("username taken: %s", cred.Username)
		return apperrors.NewConflictError("user", cred.Username)
	}
	users[cred.Username] = cred.PasswordHash
	if err := writeJSON(r.path(), users); err != nil {
		log.Error("failed to write users: %v", err)
		return apperrors.NewIOFailureError("write users", err)
	}
	return nil
}
