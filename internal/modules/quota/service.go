package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service orchestrates generation-quota logic.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseToken deducts one generation from the user's monthly allowance and
// returns the remaining count. If the user row does not exist yet it is
// initialised and the generation is immediately consumed.
func (s *Service) UseToken(ctx context.Context, uid string) (int, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return 0, ErrMissingUser
	}
	remaining, err := s.store.UseToken(ctx, uid)
	if !errors.Is(err, ErrQuotaExhausted) {
		return remaining, wrap(err)
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if err := s.store.EnsureUser(ctx, uid); err != nil {
		return 0, wrap(err)
	}
	remaining, err = s.store.UseToken(ctx, uid)
	if errors.Is(err, ErrQuotaExhausted) {
		return 0, err
	}
	return remaining, wrap(err)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("quota store: %w", err)
}
