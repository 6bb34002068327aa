package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/seyifunmi/clinicshop/internal/identity/domain"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTokenInvalid       = errors.New("reset token invalid or expired")
)

const (
	minPasswordLen = 8
	resetTokenTTL  = time.Hour
)

type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Confirm   string
}

type Service struct {
	users   UserRepo
	tokens  TokenStore
	mailer  Mailer
	baseURL string
	log     *slog.Logger
}

func NewService(users UserRepo, tokens TokenStore, mailer Mailer, baseURL string, log *slog.Logger) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Register creates an account with the email as the login name. The email
// uniqueness check is left to storage so concurrent registrations cannot
// both win.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FirstName == "" {
		return domain.User{}, fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.User{}, fmt.Errorf("%w: bad email", ErrInvalidInput)
	}
	if err := checkPassword(req.Password, req.Confirm); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(ctx, domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset issues a single-use token and mails the reset link.
// An unknown email returns nil so the endpoint cannot be used to probe
// which addresses have accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: bad email", ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.log.Info("password reset requested for unknown email")
		return nil
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, user.ID, resetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.baseURL + "/password-reset-confirm/" + token
	body := "Hello " + user.FirstName + ",\n\n" +
		"We received a request to reset your password. Click the link below to choose a new one:\n\n" +
		link + "\n\n" +
		"If you did not request this, you can ignore this email. The link expires in one hour.\n"

	if err := s.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes the token and replaces the stored hash.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenInvalid
	}
	if err := checkPassword(password, confirm); err != nil {
		return err
	}

	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func checkPassword(password, confirm string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
