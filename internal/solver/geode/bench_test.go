package geode

import (
	"testing"

	"github.com/napolitain/solver-geode/internal/models"
)

func BenchmarkSolve24(b *testing.B) {
	bps := SampleBlueprints()

	for _, ordering := range []Ordering{OrderByCurrent, OrderByBound} {
		b.Run(ordering.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				for _, bp := range bps {
					NewSolver(bp, WithOrdering(ordering)).Solve(DefaultHorizon)
				}
			}
		})
	}
}

func BenchmarkSolve32(b *testing.B) {
	bps := SampleBlueprints()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, bp := range bps {
			NewSolver(bp).Solve(ExtendedHorizon)
		}
	}
}

func BenchmarkChildren(b *testing.B) {
	bp := SampleBlueprints()[0]
	s := State{Time: 12, Robots: models.Vector{2, 4, 1, 0}, Resources: models.Vector{3, 10, 2, 0}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Children(bp, s, ExtendedHorizon)
	}
}
