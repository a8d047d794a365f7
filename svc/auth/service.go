package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/newsdesk/pkg/email"
	"github.com/dmitrymomot/newsdesk/pkg/logger"
	"github.com/dmitrymomot/newsdesk/pkg/sanitizer"
	"github.com/dmitrymomot/newsdesk/pkg/validator"
	"github.com/dmitrymomot/newsdesk/storage"
)

// resetTokenTTL is the validity window of a reset token, measured from
// issuance.
const resetTokenTTL = time.Hour

// resetTokenBytes yields a 64-char hex token (256 bits of entropy).
const resetTokenBytes = 32

const minPasswordLength = 6

// UserStore is the slice of the credential store the service depends on.
// *storage.Users satisfies it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*storage.User, error)
	FindByID(ctx context.Context, id string) (*storage.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*storage.User, error)
	Insert(ctx context.Context, user *storage.User) error
	SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error
	ConsumeResetToken(ctx context.Context, token string, passwordHash string, now time.Time) error
}

// Service implements registration, credential verification, and the
// password reset protocol. Session establishment is the caller's job.
type Service struct {
	users   UserStore
	mailer  email.EmailSender
	baseURL string
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

// WithLogger sets the logger used for store and mail faults.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source, used by tests to control token
// expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the auth service. baseURL is the absolute prefix for
// reset links, e.g. "https://example.com".
func NewService(users UserStore, mailer email.EmailSender, baseURL string, opts ...Option) *Service {
	s := &Service{
		users:   users,
		mailer:  mailer,
		baseURL: baseURL,
		log:     slog.Default().With(logger.Component("auth")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user with the default admin role. The email existence
// pre-check yields ErrEmailTaken; the unique index backs it up, so a lost
// race surfaces as ErrEmailTaken too. The caller establishes the session
// afterwards (auto-login).
func (s *Service) Register(ctx context.Context, name, emailAddr, password string, age int) (*storage.User, error) {
	name = sanitizer.TrimName(name)
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	if err := validator.Apply(
		validator.RequiredString("name", name),
		validator.ValidEmail("email", emailAddr),
		validator.MinLenString("password", password, minPasswordLength),
		validator.RangeNum("age", age, 0, 150),
	); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, emailAddr); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("checking email existence: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &storage.User{
		Name:     name,
		Email:    emailAddr,
		Age:      age,
		Password: hash,
		Role:     RoleAdmin.String(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(user.ID.Hex()))
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, emailAddr, password string) (*storage.User, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}

	if !verifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequestReset issues a reset token and emails the redemption link.
// Unknown email and mail dispatch failure both return nil so the caller's
// acknowledgement cannot be used to enumerate accounts; faults are only
// logged. A fresh request overwrites any outstanding token.
func (s *Service) RequestReset(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	if err := validator.Apply(validator.ValidEmail("email", emailAddr)); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.InfoContext(ctx, "reset requested for unknown email", logger.Email(emailAddr))
			return nil
		}
		return fmt.Errorf("finding user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expiry := s.now().Add(resetTokenTTL)

	if err := s.users.SetResetToken(ctx, user.ID.Hex(), token, expiry); err != nil {
		return fmt.Errorf("persisting reset token: %w", err)
	}

	link := s.baseURL + "/auth/reset/" + token
	sendErr := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  "Password reset for your account",
		BodyHTML: resetEmailBody(link),
		Tag:      "password-reset",
	})
	if sendErr != nil {
		s.log.ErrorContext(ctx, "failed to send reset email",
			logger.UserID(user.ID.Hex()), logger.Error(sendErr))
	}
	return nil
}

// ValidateResetToken resolves the user bound to a live token. Expired and
// unknown tokens are the same ErrInvalidResetToken outcome.
func (s *Service) ValidateResetToken(ctx context.Context, token string) (*storage.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	user, err := s.users.FindByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("finding user by reset token: %w", err)
	}
	return user, nil
}

// ResetPassword redeems a token. A short password fails with
// ErrWeakPassword and leaves the token unconsumed. The final write
// re-checks token and expiry, so a concurrent redemption that already
// consumed the token fails here with ErrInvalidResetToken.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if _, err := s.ValidateResetToken(ctx, token); err != nil {
		return err
	}

	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.ConsumeResetToken(ctx, token, hash, s.now()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("consuming reset token: %w", err)
	}
	return nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return hex.EncodeToString(buf), nil
}

func resetEmailBody(link string) string {
	return `<p>You requested a password reset. Follow this link to choose a new password:</p>` +
		`<p><a href="` + link + `">` + link + `</a></p>` +
		`<p>The link is valid for 1 hour. If you did not request a reset, ignore this email.</p>`
}
