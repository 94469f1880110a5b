package stats

import (
	"strings"

	"github.com/gravadigital/fring-api/internal/domain/vote"
)

// UserStats are the personal usage counters shown on the profile page
type UserStats struct {
	ItemCount          int64            `json:"item_count"`
	ItemsByCategory    map[string]int64 `json:"items_by_category"`
	ItemsByColor       map[string]int64 `json:"items_by_color"`
	EnsembleCount      int64            `json:"ensemble_count"`
	ParticipationCount int64            `json:"participation_count"`
	VotesReceived      vote.Tally       `json:"votes_received"`
	FriendCount        int64            `json:"friend_count"`
	FavoriteCount      int64            `json:"favorite_count"`
}

// CountBy groups values by a normalized key. Blank keys are counted as "unknown".
func CountBy[T any](values []T, key func(T) string) map[string]int64 {
	counts := make(map[string]int64)
	for _, v := range values {
		k := strings.ToLower(strings.TrimSpace(key(v)))
		if k == "" {
			k = "unknown"
		}
		counts[k]++
	}
	return counts
}
