package impulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceParamSetters(t *testing.T) {
	space := NewSpace()

	assert.ErrorIs(t, space.SetDistanceTol(0), ErrInvalidParam)
	assert.ErrorIs(t, space.SetVelocityTol(-1), ErrInvalidParam)
	assert.ErrorIs(t, space.SetCollisionAccuracy(0), ErrInvalidParam)
	assert.ErrorIs(t, space.SetCollisionAccuracy(1.5), ErrInvalidParam)
	assert.ErrorIs(t, space.SetCollisionHandling(CollisionHandling(99)), ErrInvalidParam)

	// nothing changed
	assert.Equal(t, DefaultParams(), space.Params())

	require.NoError(t, space.SetDistanceTol(0.05))
	require.NoError(t, space.SetVelocityTol(0.25))
	require.NoError(t, space.SetCollisionAccuracy(1))
	require.NoError(t, space.SetCollisionHandling(HANDLING_SERIAL_GROUPED))
	assert.Equal(t, 0.05, space.Params().DistanceTol)
	assert.Equal(t, 0.25, space.Params().VelocityTol)
	assert.Equal(t, 1.0, space.Params().CollisionAccuracy)
	assert.Equal(t, HANDLING_SERIAL_GROUPED, space.Params().CollisionHandling)
}

func TestSpaceApplyParamsRejectsInvalid(t *testing.T) {
	space := NewSpace()
	params := DefaultParams()
	params.CollisionAccuracy = 2

	assert.ErrorIs(t, space.ApplyParams(params), ErrInvalidParam)
	assert.Equal(t, DefaultParams(), space.Params())
}

func TestSetElasticity(t *testing.T) {
	space := NewSpace()
	assert.ErrorIs(t, space.SetElasticity(1), ErrNoBodies)
	assert.ErrorIs(t, space.SetElasticity(-0.1), ErrInvalidParam)
	assert.ErrorIs(t, space.SetElasticity(1.1), ErrInvalidParam)

	a := space.AddBody(NewBody(1, 1))
	b := space.AddBody(NewBody(1, 1))
	require.NoError(t, space.SetElasticity(0.75))
	assert.Equal(t, 0.75, a.Elasticity())
	assert.Equal(t, 0.75, b.Elasticity())
}

func TestAddRemoveBody(t *testing.T) {
	space := NewSpace()
	a := space.AddBody(NewBody(1, 1))
	b := space.AddBody(NewBody(1, 1))

	var count int
	space.EachBody(func(*Body) { count++ })
	assert.Equal(t, 2, count)

	space.RemoveBody(a)
	count = 0
	space.EachBody(func(body *Body) {
		count++
		assert.Same(t, b, body)
	})
	assert.Equal(t, 1, count)
}

func TestHandleCollisionsEmpty(t *testing.T) {
	space := NewSpace()
	applied, err := space.HandleCollisions(nil, nil)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestHandleCollisionsRejectsMovingStaticBody(t *testing.T) {
	space := NewSpace()
	d := space.AddBody(NewBody(1, 1))
	wall := space.AddBody(NewStaticBody())
	wall.v = Vector{1, 0} // corrupted upstream state

	con := NewContact(d, wall, Vector{}, Vector{}, Vector{1, 0}, false)
	assert.Panics(t, func() {
		space.HandleCollisions([]*Contact{con}, nil)
	})
}

func TestDiscontinuityHint(t *testing.T) {
	space := NewSpace()
	d1 := disk(space, 1, -1, 1)
	d2 := disk(space, 1, 1, -1)
	require.NoError(t, space.SetElasticity(1))

	_, err := space.HandleCollisions([]*Contact{headOn(d1, d2)}, nil)
	require.NoError(t, err)
	assert.True(t, space.Discontinuous())

	// a quiet contact set applies nothing and resets the hint
	_, err = space.HandleCollisions([]*Contact{headOn(d1, d2)}, nil)
	require.NoError(t, err)
	assert.False(t, space.Discontinuous())
}

func TestTotalsAccumulate(t *testing.T) {
	space := NewSpace()
	d1 := disk(space, 1, -1, 1)
	d2 := disk(space, 1, 1, -1)
	require.NoError(t, space.SetElasticity(0.5))

	var totals Totals
	applied, err := space.HandleCollisions([]*Contact{headOn(d1, d2)}, &totals)
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, 1, totals.Impulses)
	assert.Greater(t, totals.Iterations, 0)

	// separating now: no impulse, no increment
	applied, err = space.HandleCollisions([]*Contact{headOn(d1, d2)}, &totals)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 1, totals.Impulses)
}
