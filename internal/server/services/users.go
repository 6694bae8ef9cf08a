// Package services implements the mutation handlers around the credential
// and note stores: credential issuance, note lifecycle and the favorite
// toggle, with authentication and ownership enforced in front of every
// mutation.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmorris/notedly/internal/common"
	"github.com/dmorris/notedly/internal/server/auth"
	"github.com/dmorris/notedly/internal/server/gravatar"
	"github.com/dmorris/notedly/internal/server/models"
	"github.com/dmorris/notedly/internal/server/repositories/users"
)

// dummyDigest is a bcrypt digest verified when sign-in cannot find the
// account, so the no-such-user path costs the same as a wrong password.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	repo   users.Repository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

func NewUserService(repo users.Repository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account and returns a token bound to its id. Store
// failures, including username or email collisions, all surface as the one
// generic account-creation error so responses cannot be used to enumerate
// accounts.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) (string, error) {

	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" || email == "" || password == "" {
		return "", common.ErrorValidation
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		AvatarURL:    gravatar.URL(email),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", common.ErrorAccountCreation
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return token, nil
}

// SignIn authenticates by username or email plus password and returns a
// token. An unknown account and a wrong password are indistinguishable to
// the caller, in both error value and timing.
func (s *UserService) SignIn(ctx context.Context, username, email, password string) (string, error) {

	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	user, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, dummyDigest)
			return "", common.ErrorUnauthenticated
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorUnauthenticated
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return token, nil
}
