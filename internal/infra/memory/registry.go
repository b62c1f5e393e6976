package memory

import (
	"sort"
	"sync"

	"telegram-channel-gate/internal/domain/ports/repository"
)

var _ repository.RecipientRegistry = (*RecipientRegistry)(nil)

// RecipientRegistry is the process-wide recipient set. Both mutations are
// single-key and idempotent, so they commute regardless of interleaving;
// broadcast workers call Remove concurrently while the poller calls Record.
type RecipientRegistry struct {
	mu      sync.RWMutex
	members map[int64]struct{}
}

func NewRecipientRegistry() *RecipientRegistry {
	return &RecipientRegistry{members: make(map[int64]struct{})}
}

func (r *RecipientRegistry) Record(telegramID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[telegramID] = struct{}{}
}

func (r *RecipientRegistry) Remove(telegramID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, telegramID)
}

// Snapshot returns the membership fixed at call time, sorted ascending so a
// broadcast run iterates a deterministic plan for a given registry state.
func (r *RecipientRegistry) Snapshot() []int64 {
	r.mu.RLock()
	out := make([]int64, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *RecipientRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
