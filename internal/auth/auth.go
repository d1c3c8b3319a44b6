package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"sweetshop/internal/observability"
)

// Service verifies credentials, registers users and resolves bearer tokens
// to identities.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens *TokenService
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserStore, hasher PasswordHasher, tokens *TokenService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	role, err := ParseRole(string(role))
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Save(ctx, &User{Username: username, PasswordHash: hash, Role: role})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

// Authenticate returns the user whose stored hash matches password.
// An unknown username and a wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		// Burn the same bcrypt work as a real comparison.
		s.hasher.Verify(password, s.dummy())
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			observability.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			observability.LoginsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		observability.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	observability.LoginsTotal.WithLabelValues("success").Inc()
	return &LoginResponse{Token: token, User: user}, nil
}

// ResolveToken verifies token, loads the user named by its subject and
// checks the token against that user. Every failure is ErrTokenInvalid.
func (s *Service) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	subject, err := s.tokens.ExtractSubject(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("resolve token subject", "err", err)
		}
		return nil, ErrTokenInvalid
	}
	if !s.tokens.Validate(token, user.Username) {
		return nil, ErrTokenInvalid
	}
	return user.Identity(), nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("sweetshop-timing-equalizer")
		if err != nil {
			s.logger.Error("build dummy hash", "err", err)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

type usersFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Role     Role   `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile registers the users listed in a YAML file, skipping entries
// that are incomplete or already exist.
func (s *Service) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return fmt.Errorf("parse users file: %w", err)
	}
	for _, u := range uf.Users {
		if u.Username == "" || u.Password == "" {
			continue
		}
		if _, err := s.Register(ctx, u.Username, u.Password, u.Role); err != nil {
			if errors.Is(err, ErrDuplicateUser) {
				continue
			}
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}
	return nil
}
