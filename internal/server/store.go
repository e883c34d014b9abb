package server

import (
	"context"

	"github.com/playperu/defenceguesser/internal/daily"
)

// Store is the persistence the HTTP layer needs: the daily registry's
// document store plus listing and deletion for admin maintenance.
type Store interface {
	daily.Store
	Keys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
