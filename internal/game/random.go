package game

import (
	mathrand "math/rand"
	"time"
)

// Source is every random draw the engine makes: growth jitter, candidate names,
// payroll attrition and market rolls. *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

func NewRandSource(seed int64) Source {
	return mathrand.New(mathrand.NewSource(seed))
}

func newTimeSeededSource() Source {
	return NewRandSource(time.Now().UnixNano())
}

// uniform returns a value in [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
