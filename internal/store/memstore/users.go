package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

type Users struct {
	s *Store
}

func (u *Users) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (u *Users) SearchCandidates(_ context.Context, query string, excludeID uuid.UUID, limit int) ([]models.UserSummary, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	needle := strings.ToLower(query)
	out := []models.UserSummary{}
	for id, user := range u.s.users {
		if id == excludeID {
			continue
		}
		if _, connected := u.s.pairs[newPairKey(excludeID, id)]; connected {
			continue
		}
		if !strings.Contains(strings.ToLower(user.Username), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			continue
		}
		out = append(out, u.s.summary(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (u *Users) UpdateAvatar(_ context.Context, id uuid.UUID, avatarURL *string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if avatarURL != nil {
		v := *avatarURL
		user.AvatarURL = &v
	} else {
		user.AvatarURL = nil
	}
	u.s.users[id] = user
	return nil
}
