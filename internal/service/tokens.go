package service

import (
	"context"
	"errors"
	"strings"

	"aquarium_control/internal/repository"
)

var errEmptyToken = errors.New("empty device token")

type TokenService struct {
	tokens repository.TokenRepo
}

func NewTokenService(tokens repository.TokenRepo) *TokenService {
	return &TokenService{tokens: tokens}
}

// Register stores a push token. Re-registering an existing token is a no-op
// and reports created=false.
func (s *TokenService) Register(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, errEmptyToken
	}
	return s.tokens.Save(ctx, token)
}
