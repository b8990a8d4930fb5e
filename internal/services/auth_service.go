package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/diet-tracker/internal/auth"
	"github.com/vladimiradmaev/diet-tracker/internal/config"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/logger"
	"github.com/vladimiradmaev/diet-tracker/internal/state"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Password  string
	Phone     string
	BirthDate time.Time
	Gender    domain.Gender
}

// AuthService handles login, token refresh and caller resolution
type AuthService struct {
	store     domain.Store
	dummyHash string
	codec     *auth.TokenCodec
	hasher    *auth.Hasher
	tracker   state.AttemptTracker
	cfg       config.AuthConfig
}

// NewAuthService creates a new auth service. tracker may be nil when
// cfg.MaxLoginAttempts is zero.
func NewAuthService(store domain.Store, codec *auth.TokenCodec, hasher *auth.Hasher, tracker state.AttemptTracker, cfg config.AuthConfig) *AuthService {
	// unknown usernames are checked against this hash so that both login
	// failures cost one bcrypt comparison
	dummyHash, err := hasher.Hash("dummy-password-for-unknown-users")
	if err != nil {
		logger.Warn("Failed to prepare dummy password hash", "error", err)
	}
	return &AuthService{
		store:     store,
		dummyHash: dummyHash,
		codec:     codec,
		hasher:    hasher,
		tracker:   tracker,
		cfg:       cfg,
	}
}

func invalidCredentials() error {
	return apperrors.New(apperrors.ErrorTypeInvalidCredentials, "INVALID_CREDENTIALS", "Incorrect username or password")
}

func (s *AuthService) guarded() bool {
	return s.cfg.MaxLoginAttempts > 0 && s.tracker != nil
}

func attemptKey(username string) string {
	return "login:" + strings.ToLower(username)
}

// Register hashes the password and stores a new account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	if in.Username == "" || in.Password == "" || in.Phone == "" {
		return nil, apperrors.NewValidationError("username, password and phone are required")
	}
	if !in.Gender.Valid() {
		return nil, apperrors.NewValidationError("gender must be male or female")
	}
	if in.BirthDate.IsZero() {
		return nil, apperrors.NewValidationError("birth date is required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must not exceed %d bytes", auth.MaxPasswordBytes)).
			WithContext(apperrors.FieldKey, "password")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Username:  in.Username,
		Password:  hash,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Account registered", "account_id", account.ID)
	return account, nil
}

// Login checks credentials and opens a new session
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	log := logger.WithContext(ctx).With("username", username)

	if s.guarded() {
		count, left, err := s.tracker.Attempts(ctx, attemptKey(username))
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if count >= s.cfg.MaxLoginAttempts {
			log.Warn("Login blocked", "attempts", count, "retry_after", left)
			return nil, apperrors.NewRateLimitedError("Too many failed login attempts", left)
		}
	}

	account, err := s.store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.hasher.Verify(password, s.dummyHash)
		log.Info("Login failed: unknown username")
		return nil, s.loginFailed(ctx, username)
	}
	if !s.hasher.Verify(password, account.Password) {
		log.Info("Login failed: wrong password", "account_id", account.ID)
		return nil, s.loginFailed(ctx, username)
	}

	session, err := s.store.Sessions().Create(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(account.Username, session.ID)
	if err != nil {
		return nil, err
	}

	if s.guarded() {
		if err := s.tracker.Reset(ctx, attemptKey(username)); err != nil {
			log.Warn("Failed to reset login attempts", "error", err)
		}
	}

	log.Info("Login succeeded", "account_id", account.ID, "session_id", session.ID)
	return pair, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username string) error {
	if s.guarded() {
		if _, err := s.tracker.Record(ctx, attemptKey(username), s.cfg.LoginAttemptWindow); err != nil {
			logger.WithContext(ctx).Warn("Failed to record login attempt", "error", err)
		}
	}
	return invalidCredentials()
}

func (s *AuthService) issuePair(username string, sessionID uuid.UUID) (*TokenPair, error) {
	access, err := s.codec.Issue(auth.Claims{
		Subject:   username,
		SessionID: sessionID.String(),
		Type:      auth.AccessToken,
	}, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	refresh, err := s.codec.Issue(auth.Claims{
		Subject:   username,
		SessionID: sessionID.String(),
		Type:      auth.RefreshToken,
	}, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// loadSession verifies a token of the wanted type and loads its session.
func (s *AuthService) loadSession(ctx context.Context, token string, want auth.TokenType) (*domain.Session, *auth.Claims, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, nil, err
	}
	if claims.Type != want {
		return nil, nil, apperrors.NewInvalidTokenError("unexpected token type")
	}

	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, nil, apperrors.NewInvalidTokenError("malformed session id")
	}

	session, err := s.store.Sessions().GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, apperrors.NewInvalidTokenError("session not found")
	}
	return session, claims, nil
}

// Refresh mints a new access token for the session of a refresh token. The
// refresh token itself stays valid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	session, claims, err := s.loadSession(ctx, refreshToken, auth.RefreshToken)
	if err != nil {
		return "", err
	}
	if !session.Active {
		return "", apperrors.NewInvalidTokenError("session revoked")
	}

	access, err := s.codec.Issue(auth.Claims{
		Subject:   claims.Subject,
		SessionID: session.ID.String(),
		Type:      auth.AccessToken,
	}, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return access, nil
}

// ResolveCurrentUser returns the session an access token is bound to. An
// inactive session still resolves; see RequireActive.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, accessToken string) (*domain.Session, error) {
	session, _, err := s.loadSession(ctx, accessToken, auth.AccessToken)
	return session, err
}

// RequireActive rejects revoked sessions.
func RequireActive(session *domain.Session) error {
	if !session.Active {
		return apperrors.New(apperrors.ErrorTypeInactiveSession, "INACTIVE_SESSION", "Inactive user")
	}
	return nil
}

// CurrentAccount loads the account that owns a session
func (s *AuthService) CurrentAccount(ctx context.Context, session *domain.Session) (*domain.Account, error) {
	account, err := s.store.Accounts().GetByID(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NewInvalidTokenError("account not found")
	}
	return account, nil
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.store.Sessions().Revoke(ctx, sessionID); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Session revoked", "session_id", sessionID)
	return nil
}
