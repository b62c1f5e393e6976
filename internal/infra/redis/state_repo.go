package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"telegram-channel-gate/internal/domain/ports/repository"
)

var _ repository.BroadcastStateRepository = (*StateRepo)(nil)

// StateRepo keeps the per-admin pending-post flag in Redis. The key is
// written without expiry: an admin who requested a post stays in the
// awaiting state until a payload arrives, however long that takes.
type StateRepo struct {
	client *Client
}

func NewStateRepo(client *Client) *StateRepo {
	return &StateRepo{client: client}
}

func (s *StateRepo) stateKey(tgID int64) string {
	return fmt.Sprintf("pending_post:%d", tgID)
}

func (s *StateRepo) SetPending(ctx context.Context, tgID int64) error {
	return s.client.Set(ctx, s.stateKey(tgID), "1", 0)
}

func (s *StateRepo) IsPending(ctx context.Context, tgID int64) (bool, error) {
	_, err := s.client.Get(ctx, s.stateKey(tgID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *StateRepo) Clear(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.stateKey(tgID))
}
