package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	stderrors "errors"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
	"github.com/vytor/flashstudy/internal/session"
	"github.com/vytor/flashstudy/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// Password hashing schemes.
const (
	HashBcrypt = "bcrypt"
	HashSHA256 = "sha256"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthConfig controls registration and login.
type AuthConfig struct {
	PasswordHash    string
	BcryptCost      int
	AllowGuestLogin bool
}

// RegisterRequest is the input of Register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64,username"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token   string           `json:"token"`
	Session *session.Session `json:"-"`
}

// AuthService handles accounts and sessions
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sess *session.Session) error
	// Authenticate resolves a bearer token to its live session.
	Authenticate(ctx context.Context, tokenString string) (*session.Session, error)
}

type authService struct {
	credentials repository.CredentialRepository
	sessions    *session.Manager
	tokens      *token.Manager
	cfg         AuthConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(credentials repository.CredentialRepository, sessions *session.Manager, tokens *token.Manager, cfg AuthConfig) AuthService {
	if cfg.PasswordHash == "" {
		cfg.PasswordHash = HashBcrypt
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{credentials: credentials, sessions: sessions, tokens: tokens, cfg: cfg}
}

func (s *authService) hashPassword(password string) (string, error) {
	if s.cfg.PasswordHash == HashSHA256 {
		sum := sha256.Sum256([]byte(password))
		return hex.EncodeToString(sum[:]), nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword accepts bcrypt hashes and legacy unsalted SHA-256 hex digests.
func checkPassword(hash, password string) bool {
	if len(hash) == sha256.Size*2 {
		if _, err := hex.DecodeString(hash); err == nil {
			sum := sha256.Sum256([]byte(password))
			return subtle.ConstantTimeCompare([]byte(hash), []byte(hex.EncodeToString(sum[:]))) == 1
		}
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) error {
	log := logger.FromContext(ctx).WithPrefix("auth")
	log.Debug("registering user: username=%s", req.Username)

	if err := validate(req); err != nil {
		return err
	}
	if len(req.Password) > maxPasswordBytes {
		return errors.NewValidationError("password", "must be at most 72 bytes")
	}

	existing, err := s.credentials.Get(ctx, req.Username)
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return appError(err)
	}
	if existing != nil {
		return errors.NewConflictError("user", req.Username)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return errors.NewInternalError(err)
	}

	if err := s.credentials.Create(ctx, models.Credential{Username: req.Username, PasswordHash: hash}); err != nil {
		if stderrors.Is(err, errors.ErrConflict) {
			return err
		}
		log.Error("failed to store credential: %v", err)
		return appError(err)
	}

	log.Info("user registered: username=%s", req.Username)
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")
	log.Debug("login attempt: username=%s", username)

	if err := validate(struct {
		Username string `validate:"required,max=64,username"`
	}{username}); err != nil {
		return nil, err
	}

	cred, err := s.credentials.Get(ctx, username)
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return nil, appError(err)
	}

	switch {
	case cred != nil:
		if !checkPassword(cred.PasswordHash, password) {
			log.Warn("wrong password: username=%s", username)
			return nil, errors.NewUnauthorizedError("invalid username or password")
		}
	case s.cfg.AllowGuestLogin:
		log.Debug("guest login: username=%s", username)
	default:
		return nil, errors.NewUnauthorizedError("invalid username or password")
	}

	sess := s.sessions.Open(username)
	tok, err := s.tokens.Issue(username, sess.ID)
	if err != nil {
		s.sessions.Close(username, sess.ID)
		log.Error("failed to issue token: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user logged in: username=%s, session=%s", username, sess.ID)
	return &LoginResult{Token: tok, Session: sess}, nil
}

func (s *authService) Logout(ctx context.Context, sess *session.Session) error {
	log := logger.FromContext(ctx).WithPrefix("auth")
	log.Debug("logout: username=%s, session=%s", sess.Username, sess.ID)

	if !s.sessions.Close(sess.Username, sess.ID) {
		return errors.NewUnauthorizedError("session is no longer active")
	}
	log.Info("user logged out: username=%s", sess.Username)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*session.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		log.Debug("rejected token: %v", err)
		return nil, errors.NewUnauthorizedError("invalid or expired token")
	}
	sess := s.sessions.Get(claims.Username, claims.SessionID())
	if sess == nil {
		log.Debug("token for closed session: username=%s", claims.Username)
		return nil, errors.NewUnauthorizedError("session is no longer active")
	}
	return sess, nil
}
