package service

import (
	"context"
	"fmt"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

// userIndex maps user ids to users with their password digests removed.
type userIndex map[string]*domain.User

// loadUsers fetches the given ids in one query. Ids that no longer resolve are
// simply missing from the index.
func loadUsers(ctx context.Context, repo ports.UserRepository, ids []string) (userIndex, error) {
	idx := make(userIndex, len(ids))
	if len(ids) == 0 {
		return idx, nil
	}

	users, err := repo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		idx[u.ID] = publicUser(u)
	}
	return idx, nil
}

// publicUser returns a copy of u safe to hand to the transport layer.
func publicUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
