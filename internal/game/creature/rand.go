package creature

import "math/rand"

// Source abstracts random number generation so skeleton decisions are
// deterministic in tests.
type Source interface {
	// Intn returns a random int in [0, n). Precondition: n > 0.
	Intn(n int) int
}

// mathSource implements Source using math/rand.
type mathSource struct{}

// NewMathSource returns a Source backed by math/rand's shared generator.
func NewMathSource() Source {
	return mathSource{}
}

func (mathSource) Intn(n int) int { return rand.Intn(n) }
