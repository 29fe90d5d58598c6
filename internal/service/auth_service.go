package service

import (
	"context"
	"errors"
	"net/mail"
	"slices"
	"strings"
	"time"

	"mnps-api/internal/auth"
	"mnps-api/internal/model"
	"mnps-api/pkg/apierror"
)

const minPasswordLength = 6

type userStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	Create(ctx context.Context, user model.User) (model.User, error)
}

type AuthService struct {
	users  userStore
	hasher auth.PasswordHasher
	tokens *auth.TokenManager
	now    func() time.Time

	// dummyHash is verified against when the username is unknown so that a
	// failed lookup costs the same as a wrong password.
	dummyHash string
}

func NewAuthService(users userStore, hasher auth.PasswordHasher, tokens *auth.TokenManager) (*AuthService, error) {
	if users == nil || hasher == nil || tokens == nil {
		return nil, errors.New("auth service requires a user store, hasher and token manager")
	}

	dummyHash, err := hasher.Hash("mnps-unknown-user")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummyHash,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResponse, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return model.LoginResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResponse{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) || !user.IsActive {
		return model.LoginResponse{}, model.ErrInvalidCredentials
	}

	now := s.now()
	token, expiresAt, err := s.tokens.Issue(user.Username, user.Role, now)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		ExpiresAt:   expiresAt,
		User:        user.Profile(),
	}, nil
}

// Authenticate verifies a bearer token and returns the identity it carries.
// Token errors are returned unchanged so callers can tell them apart.
func (s *AuthService) Authenticate(token string) (*model.AuthClaims, error) {
	claims, err := s.tokens.Verify(strings.TrimSpace(token), s.now())
	if err != nil {
		return nil, err
	}

	return &model.AuthClaims{
		Username:  claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserProfile, error) {
	user, err := s.newUser(req)
	if err != nil {
		return model.UserProfile{}, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return model.UserProfile{}, err
	}
	if exists {
		return model.UserProfile{}, apierror.Conflict("username or email already registered", user.Username)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserProfile{}, err
	}
	user.PasswordHash = hash

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return model.UserProfile{}, err
	}

	return created.Profile(), nil
}

// CurrentUser loads the profile of an authenticated subject. A subject whose
// account was removed or deactivated after the token was issued is rejected.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (model.UserProfile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.UserProfile{}, model.ErrUnauthorized
	}
	if err != nil {
		return model.UserProfile{}, err
	}
	if !user.IsActive {
		return model.UserProfile{}, model.ErrUnauthorized
	}

	return user.Profile(), nil
}

func (s *AuthService) newUser(req model.RegisterRequest) (model.User, error) {
	user := model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     strings.ToLower(strings.TrimSpace(req.Role)),
		FullName: strings.TrimSpace(req.FullName),
		IsActive: true,
	}

	if user.Username == "" || user.Email == "" || user.FullName == "" || req.Password == "" {
		return model.User{}, apierror.BadRequest("username, email, password and full_name are required", "")
	}
	if len(user.Username) > 50 || strings.ContainsAny(user.Username, " \t\r\n") {
		return model.User{}, apierror.BadRequest("invalid username", user.Username)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return model.User{}, apierror.BadRequest("invalid email", user.Email)
	}
	if len(req.Password) < minPasswordLength {
		return model.User{}, apierror.BadRequest("password is too short", "password must have at least 6 characters")
	}

	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	if !slices.Contains(model.ValidRoles, user.Role) {
		return model.User{}, apierror.BadRequest("invalid role", user.Role)
	}

	return user, nil
}
