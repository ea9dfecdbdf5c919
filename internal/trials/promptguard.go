package trials

import (
	"context"
	"time"
)

// promptGuardTTL matches the lifetime of the anonymous session cookie.
const promptGuardTTL = 30 * 24 * time.Hour

// PromptStore is the slice of the redis client the guard needs.
type PromptStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	PromptKey(sessionID, trialID string) string
}

// PromptGuard remembers which overdue prompts a session already answered so
// the dashboard never re-asks about a trial the user just decided, even when
// the listing races the disposition write.
type PromptGuard struct {
	store PromptStore
}

// NewPromptGuard wraps the prompt store. A nil store disables the guard.
func NewPromptGuard(store PromptStore) *PromptGuard {
	return &PromptGuard{store: store}
}

// MarkAnswered records that the session resolved the trial's overdue prompt.
func (g *PromptGuard) MarkAnswered(ctx context.Context, sessionID, trialID string) error {
	if g == nil || g.store == nil || sessionID == "" || trialID == "" {
		return nil
	}
	_, err := g.store.SetNX(ctx, g.store.PromptKey(sessionID, trialID), "1", promptGuardTTL)
	return err
}

// IsAnswered reports whether the session already resolved the trial's prompt.
// Misses and store errors both read as false, so a redis blip at worst
// re-asks the question.
func (g *PromptGuard) IsAnswered(ctx context.Context, sessionID, trialID string) bool {
	if g == nil || g.store == nil || sessionID == "" || trialID == "" {
		return false
	}
	_, err := g.store.Get(ctx, g.store.PromptKey(sessionID, trialID))
	return err == nil
}
