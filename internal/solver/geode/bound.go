package geode

import "github.com/napolitain/solver-geode/internal/models"

// UpperBound returns an optimistic estimate of the target quantity reachable from s.
// It assumes a new target robot comes online every remaining minute:
//
//	resources + Σ_{k=0}^{n-1} (robots + k)   with n = minutes remaining
//
// The estimate is never below the true optimum, so any state whose bound does not
// exceed the incumbent can be discarded.
func UpperBound(s State, horizon int) int {
	n := s.Remaining(horizon)
	return s.Resources[models.Target] + s.Robots[models.Target]*n + n*(n-1)/2
}
