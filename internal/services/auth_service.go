package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/tasktracker/task-tracker-api/internal/auth"
	"github.com/tasktracker/task-tracker-api/internal/constants"
	"github.com/tasktracker/task-tracker-api/internal/logging"
	"github.com/tasktracker/task-tracker-api/internal/models"
	"github.com/tasktracker/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordTooLong      = errors.New("password too long")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrAccountNotFound      = errors.New("account no longer exists")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(userID uint64) (auth.IssuedToken, error)
	Verify(token string) (uint64, error)
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     TokenManager
	bcryptCost int
	dummyHash  []byte
	validate   *validator.Validate
	logger     logging.Logger
}

type AuthOption func(*AuthService)

// WithBcryptCost sets the bcrypt work factor used for new hashes.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.bcryptCost = cost
	}
}

// WithAuthLogger sets the logger.
func WithAuthLogger(l logging.Logger) AuthOption {
	return func(s *AuthService) {
		s.logger = l
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenManager, opts ...AuthOption) (*AuthService, error) {
	s := &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		validate:   validator.New(),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Compared against on unknown emails so both login failures cost the same.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the input, hashes the password and creates the user.
// Nothing reaches the store unless every check passes.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := models.NormalizeEmail(input.Email)

	required := []struct {
		field string
		value string
	}{
		{"firstName", firstName},
		{"lastName", lastName},
		{"email", email},
		{"password", input.Password},
		{"confirmPassword", input.ConfirmPassword},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, NewValidationError(r.field, "is required")
		}
	}

	if err := s.validate.Var(email, "email"); err != nil {
		return nil, NewValidationError("email", "must be a valid email address")
	}
	// the minimum counts characters, the maximum is bcrypt's byte limit
	if utf8.RuneCountInString(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > constants.MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a successful login: the token and the user it was issued for.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	issued, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      user,
	}, nil
}

// CheckAuth verifies the token and re-reads the user it names, so a removed
// account is rejected even while its token is still valid.
func (s *AuthService) CheckAuth(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
