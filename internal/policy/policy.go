package policy

// DefaultThreshold is the change percentage a version must exceed.
const DefaultThreshold = 5.0

// Policy decides whether a change percentage warrants a new version.
type Policy interface {
	ShouldCreateVersion(percentageChanged float64) bool
}

// Threshold versions strictly above Percent.
type Threshold struct {
	Percent float64
}

var _ Policy = Threshold{}

// NewThreshold returns a threshold policy. Negative values fall back to the default.
func NewThreshold(percent float64) Threshold {
	if percent < 0 {
		percent = DefaultThreshold
	}

	return Threshold{Percent: percent}
}

// Default returns the threshold policy with DefaultThreshold.
func Default() Threshold {
	return Threshold{Percent: DefaultThreshold}
}

func (t Threshold) ShouldCreateVersion(percentageChanged float64) bool {
	return percentageChanged > t.Percent
}

// Func adapts a plain function into a Policy.
type Func func(percentageChanged float64) bool

func (f Func) ShouldCreateVersion(percentageChanged float64) bool {
	return f(percentageChanged)
}

// Always versions on any change.
type Always struct{}

func (Always) ShouldCreateVersion(percentageChanged float64) bool {
	return percentageChanged > 0
}
