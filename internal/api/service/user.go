package service

import (
	"context"
	"errors"
	"strings"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/pkg/idx"
)

const searchLimit = 10

// UserService serves profile lookups and the contact search box.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetUser(ctx context.Context, id idx.ID) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// SearchUsers finds other users by name or email fragment. The searching user
// is never included in their own results.
func (s *UserService) SearchUsers(ctx context.Context, query string, self idx.ID) ([]domain.User, error) {
	return s.Store.Users().SearchUsers(ctx, strings.TrimSpace(query), self, searchLimit)
}
