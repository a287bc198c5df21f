package impulse

import "math"

// Resolution constants. TINY_IMPULSE is the threshold below which an impulse
// is considered numerical noise; SMALL_IMPULSE separates velocity changes the
// surrounding integrator may treat as continuous from genuine discontinuities.
const (
	TINY_IMPULSE  = 1e-12
	SMALL_IMPULSE = 1e-4
)

// Contact describes one detected contact point for the duration of a single
// resolution call. The normal points outward from NormalBody. NormalVelocity
// is the relative approach speed along the normal; negative means the bodies
// are approaching. A Joint contact is bilateral: it must end with zero normal
// velocity and its impulse is unconstrained in sign.
type Contact struct {
	PrimaryBody *Body
	NormalBody  *Body

	// offsets from each body's center of mass to the impact point
	R1, R2 Vector

	Normal         Vector
	NormalVelocity float64
	Elasticity     float64
	Joint          bool

	// the scalar impulse finally applied, written during resolution
	Impulse float64
}

// NewContact builds a contact between two bodies from the impact offsets and
// the outward normal of the normal body. The pre-resolution normal velocity is
// read from the current body state; elasticity is the product of the two
// bodies' coefficients, as for colliding shapes. Joints are perfectly
// inelastic.
func NewContact(primary, normal *Body, r1, r2, n Vector, joint bool) *Contact {
	con := &Contact{
		PrimaryBody: primary,
		NormalBody:  normal,
		R1:          r1,
		R2:          r2,
		Normal:      n,
		Joint:       joint,
	}
	con.NormalVelocity = normal_relative_velocity(con)
	if !joint {
		con.Elasticity = primary.elasticity * normal.elasticity
	}
	return con
}

// normal_relative_velocity measures the velocity of the primary impact point
// relative to the normal body's impact point, along the contact normal.
func normal_relative_velocity(con *Contact) float64 {
	vr := con.PrimaryBody.VelocityAtPoint(con.R1).Sub(con.NormalBody.VelocityAtPoint(con.R2))
	return vr.Dot(con.Normal)
}

// apply_contact_impulse applies the scalar impulse j along the contact normal:
// +j·n at R1 on the primary body, -j·n at R2 on the normal body. It reports
// whether the velocity change is large enough to count as a discontinuity for
// the surrounding integrator.
//
// A unilateral contact must never receive a pulling impulse; anything below
// -TINY_IMPULSE is an upstream solver bug, while sub-tolerance negatives are
// rounded away.
func apply_contact_impulse(con *Contact, j float64) (discontinuous bool) {
	if !con.Joint && j < 0 {
		assertInvariant(j >= -TINY_IMPULSE, "negative impulse on a unilateral contact", j)
		j = 0
	}

	con.Impulse = j
	if j == 0 {
		return false
	}

	delta := con.Normal.Mult(j)
	apply_impulse(con.PrimaryBody, delta, con.R1)
	apply_impulse(con.NormalBody, delta.Neg(), con.R2)

	return math.Abs(j) >= SMALL_IMPULSE
}

// check_contacts validates the invariants the resolver relies on. An
// infinite-mass body that is somehow moving indicates a corrupted world state
// upstream, and every contact must involve at least one movable body.
func check_contacts(contacts []*Contact) {
	for _, con := range contacts {
		for _, body := range []*Body{con.PrimaryBody, con.NormalBody} {
			if body.IsStatic() {
				assertInvariant(body.v.Equal(Vector{}) && body.w == 0,
					"infinite-mass body has non-zero velocity", body)
			}
		}
		assertInvariant(!con.PrimaryBody.IsStatic() || !con.NormalBody.IsStatic(),
			"contact between two infinite-mass bodies", con)
	}
}
