package impulse

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
)

var (
	ErrInvalidParam     = errors.New("invalid parameter")
	ErrNoBodies         = errors.New("no bodies in space")
	ErrResidual         = errors.New("solver residual outside tolerance")
	ErrIterationCeiling = errors.New("impulse iteration ceiling exceeded")
)

// ContactFinder is the contract of the contact detection collaborator: given
// the space and the step size, it produces the contact list one
// HandleCollisions call consumes.
type ContactFinder func(space *Space, stepSize float64) []*Contact

// Totals accumulates resolution statistics across calls for the caller.
type Totals struct {
	// Impulses counts resolution calls that applied a non-trivial impulse.
	Impulses int
	// Iterations counts solver iterations, for diagnostics.
	Iterations int
}

// Space holds the bodies of a simulation together with the collision
// resolution machinery: tuning parameters, the LCP solver, the
// focus-ordering RNG and a structured logger. A Space is not safe for
// concurrent use; a resolution call runs to completion on the caller's
// goroutine and touches only the bodies its contacts reference.
type Space struct {
	// Solver computes sub-system impulses. Swappable; defaults to
	// ProjectedGaussSeidel.
	Solver Solver

	// Logger receives resolution diagnostics.
	Logger *slog.Logger

	// SimulationTime is passed to the solver and attached to diagnostics.
	SimulationTime float64

	bodies []*Body
	params Params
	rng    *rand.Rand

	discontinuous bool
}

func NewSpace() *Space {
	params := DefaultParams()
	return &Space{
		Solver: &ProjectedGaussSeidel{},
		Logger: slog.Default(),
		params: params,
		rng:    rand.New(NewLCG(params.RandomSeed)),
	}
}

func (space *Space) AddBody(body *Body) *Body {
	space.bodies = append(space.bodies, body)
	return body
}

func (space *Space) RemoveBody(body *Body) {
	for i, b := range space.bodies {
		if b == body {
			last := len(space.bodies) - 1
			space.bodies[i] = space.bodies[last]
			space.bodies[last] = nil
			space.bodies = space.bodies[:last]
			return
		}
	}
}

func (space *Space) EachBody(f func(*Body)) {
	for _, body := range space.bodies {
		f(body)
	}
}

func (space *Space) Params() Params {
	return space.params
}

// ApplyParams installs a full parameter set after validation. Nothing changes
// on error.
func (space *Space) ApplyParams(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	reseed := params.RandomSeed != space.params.RandomSeed
	space.params = params
	if reseed {
		space.rng = rand.New(NewLCG(params.RandomSeed))
	}
	return nil
}

func (space *Space) SetCollisionHandling(h CollisionHandling) error {
	if h < HANDLING_SIMULTANEOUS || h > HANDLING_SERIAL_GROUPED_LASTPASS {
		return fmt.Errorf("%w: collisionHandling %d", ErrInvalidParam, int(h))
	}
	space.params.CollisionHandling = h
	return nil
}

func (space *Space) SetDistanceTol(tol float64) error {
	if tol <= 0 {
		return fmt.Errorf("%w: distanceTol %g must be positive", ErrInvalidParam, tol)
	}
	space.params.DistanceTol = tol
	return nil
}

func (space *Space) SetVelocityTol(tol float64) error {
	if tol <= 0 {
		return fmt.Errorf("%w: velocityTol %g must be positive", ErrInvalidParam, tol)
	}
	space.params.VelocityTol = tol
	return nil
}

func (space *Space) SetCollisionAccuracy(accuracy float64) error {
	if accuracy <= 0 || accuracy > 1 {
		return fmt.Errorf("%w: collisionAccuracy %g must be in (0, 1]", ErrInvalidParam, accuracy)
	}
	space.params.CollisionAccuracy = accuracy
	return nil
}

// SetRandomSeed reseeds the focus-ordering RNG. Identical inputs and an
// identical seed reproduce a resolution bit for bit.
func (space *Space) SetRandomSeed(seed int64) {
	space.params.RandomSeed = seed
	space.rng = rand.New(NewLCG(seed))
}

// SetElasticity broadcasts a coefficient of restitution to every body.
func (space *Space) SetElasticity(elasticity float64) error {
	if elasticity < 0 || elasticity > 1 {
		return fmt.Errorf("%w: elasticity %g must be in [0, 1]", ErrInvalidParam, elasticity)
	}
	if len(space.bodies) == 0 {
		return ErrNoBodies
	}
	for _, body := range space.bodies {
		body.elasticity = elasticity
	}
	return nil
}

// Discontinuous reports whether the last HandleCollisions call applied an
// impulse large enough that the surrounding integrator should treat the
// velocity change as a discontinuity.
func (space *Space) Discontinuous() bool {
	return space.discontinuous
}

// HandleCollisions resolves the given contact set by mutating the involved
// bodies' velocities, dispatching on the configured handling strategy. It
// reports whether a non-trivial impulse was applied, and increments
// totals.Impulses when one was. The contact list is consumed by this one
// call; the Impulse field of each contact is filled in as output.
func (space *Space) HandleCollisions(contacts []*Contact, totals *Totals) (bool, error) {
	space.discontinuous = false
	if len(contacts) == 0 {
		return false, nil
	}
	check_contacts(contacts)

	var applied bool
	var err error
	switch h := space.params.CollisionHandling; h {
	case HANDLING_SIMULTANEOUS:
		applied, err = space.handle_simultaneous(contacts, totals)
	case HANDLING_HYBRID,
		HANDLING_SERIAL_SEPARATE,
		HANDLING_SERIAL_GROUPED,
		HANDLING_SERIAL_SEPARATE_LASTPASS,
		HANDLING_SERIAL_GROUPED_LASTPASS:
		applied, err = space.handle_serial(contacts, totals, h.serialOptions())
	default:
		return false, fmt.Errorf("%w: collisionHandling %d", ErrInvalidParam, int(h))
	}
	if err != nil {
		return false, err
	}

	if applied && totals != nil {
		totals.Impulses++
	}
	return applied, nil
}
