package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-auth-service/internal/model"
	"go-auth-service/internal/password"
	"go-auth-service/internal/token"
	"go-auth-service/pkg/apierror"
)

const (
	maxUsernameLen = 50
	maxNameLen     = 50
	maxCountryLen  = 25
)

// UserStore is the slice of the credential store the engine consumes.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type AuthService struct {
	users  UserStore
	tokens *token.Service
}

func NewAuthService(users UserStore, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the credentials and issues a bearer token for the username.
// An unknown username and a wrong password are indistinguishable to the
// caller so usernames cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, username string, pass string) (model.AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.AuthResponse{}, model.ErrInvalidCredentials
	}

	if !password.Verify(pass, user.PasswordHash) {
		return model.AuthResponse{}, model.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.Username, nil)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Token: signed}, nil
}

// Register creates the user record with the default role and issues a token
// for it. The record is durably inserted before any token is signed; the
// store's uniqueness enforcement is the authority on duplicates, the
// existence pre-check only gives a cheaper answer for the common case.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return model.AuthResponse{}, err
	}

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if exists {
		return model.AuthResponse{}, model.ErrUserAlreadyExists
	}

	digest, err := password.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Country:      req.Country,
		PasswordHash: digest,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthResponse{}, err
	}

	signed, err := s.tokens.Issue(user.Username, nil)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Token: signed}, nil
}

// UserByUsername rehydrates the record behind a resolved token subject.
func (s *AuthService) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func validateRegistration(req model.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apierror.New("BAD_REQUEST", "userName and password are required", "", http.StatusBadRequest)
	}
	if len(req.Username) > maxUsernameLen {
		return apierror.New("BAD_REQUEST", "userName is too long", req.Username, http.StatusBadRequest)
	}
	if len(req.FirstName) > maxNameLen {
		return apierror.New("BAD_REQUEST", "firstName is too long", "", http.StatusBadRequest)
	}
	if len(req.LastName) > maxNameLen {
		return apierror.New("BAD_REQUEST", "lastName is too long", "", http.StatusBadRequest)
	}
	if len(req.Country) > maxCountryLen {
		return apierror.New("BAD_REQUEST", "country is too long", "", http.StatusBadRequest)
	}

	return nil
}
