package impulse

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCGDeterministic(t *testing.T) {
	a := NewLCG(42)
	b := NewLCG(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestLCGSeedsDiverge(t *testing.T) {
	a := NewLCG(1)
	b := NewLCG(2)
	diverged := false
	for i := 0; i < 10; i++ {
		if a.Uint64() != b.Uint64() {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

func TestLCGReseed(t *testing.T) {
	lcg := NewLCG(7)
	first := lcg.Uint64()
	lcg.Uint64()
	lcg.Seed(7)
	assert.Equal(t, first, lcg.Uint64())
}

func TestLCGPermDeterministic(t *testing.T) {
	a := rand.New(NewLCG(99))
	b := rand.New(NewLCG(99))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Perm(8), b.Perm(8))
	}
}
