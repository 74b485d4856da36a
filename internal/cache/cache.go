// Package cache persists solved (blueprint, horizon) searches so repeated runs over
// the same input skip the search.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// Entry is one cached search
type Entry struct {
	Key       string
	Result    geode.Result
	RunID     string
	CreatedAt time.Time
}

// Store looks up and records solved searches
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, entry Entry) error
}

// Key fingerprints a search by robot costs, horizon and frontier ordering.
// The blueprint id is not part of the key: identical recipes share one entry.
func Key(bp *models.Blueprint, horizon int, ordering geode.Ordering) string {
	var sb strings.Builder
	for _, robot := range models.AllResources() {
		cost := bp.Cost(robot)
		for i, n := range cost {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%d", n)
		}
		sb.WriteByte('/')
	}
	fmt.Fprintf(&sb, "h%d/%s", horizon, ordering)
	return sb.String()
}
