package geode

// Search horizons used by the two aggregation modes
const (
	// DefaultHorizon is the number of minutes available when summing quality levels
	DefaultHorizon = 24

	// ExtendedHorizon is the number of minutes available in top-N product mode
	ExtendedHorizon = 32

	// DefaultTopN is how many leading blueprints survive into top-N product mode
	DefaultTopN = 3
)
