package impulse

import (
	"fmt"
	"math"
)

var INFINITY = math.Inf(1)

type Body struct {
	id int

	// mass and it's inverse
	m     float64
	m_inv float64

	// moment of inertia about the center of mass and it's inverse
	i     float64
	i_inv float64

	// position, velocity
	p Vector
	v Vector

	// Angle, angular velocity (radians)
	a float64
	w float64

	elasticity float64

	UserData interface{}
}

func (b Body) String() string {
	return fmt.Sprint("Body ", b.id)
}

var bodyCur int = 0

func NewBody(mass, moment float64) *Body {
	body := &Body{
		id: bodyCur,
		p:  Vector{},
		v:  Vector{},
	}
	bodyCur++

	body.SetMass(mass)
	body.SetMoment(moment)

	return body
}

// NewStaticBody returns an immovable body. Its velocity must stay zero;
// the resolver treats a moving infinite-mass body as an upstream bug.
func NewStaticBody() *Body {
	body := NewBody(INFINITY, INFINITY)
	return body
}

func (body *Body) Mass() float64 {
	return body.m
}

func (body *Body) SetMass(mass float64) {
	assertInvariant(mass > 0, "Body's mass must be positive")
	body.m = mass
	body.m_inv = 1 / mass
}

func (body *Body) Moment() float64 {
	return body.i
}

func (body *Body) SetMoment(moment float64) {
	assertInvariant(moment > 0, "Body's moment must be positive")
	body.i = moment
	body.i_inv = 1 / moment
}

func (body *Body) IsStatic() bool {
	return body.m_inv == 0
}

func (body *Body) Position() Vector {
	return body.p
}

func (body *Body) SetPosition(position Vector) {
	body.p = position
}

func (body *Body) Angle() float64 {
	return body.a
}

func (body *Body) SetAngle(angle float64) {
	body.a = angle
}

func (body *Body) Rotation() Vector {
	return ForAngle(body.a)
}

func (body *Body) Velocity() Vector {
	return body.v
}

func (body *Body) SetVelocity(x, y float64) {
	body.v = Vector{x, y}
}

func (body *Body) SetVelocityVector(v Vector) {
	body.v = v
}

func (body *Body) AngularVelocity() float64 {
	return body.w
}

func (body *Body) SetAngularVelocity(angularVelocity float64) {
	body.w = angularVelocity
}

func (body *Body) Elasticity() float64 {
	return body.elasticity
}

func (body *Body) SetElasticity(elasticity float64) {
	body.elasticity = elasticity
}

// VelocityAtPoint returns the velocity of the point at offset r from the
// center of mass, including the rotational contribution.
func (body *Body) VelocityAtPoint(r Vector) Vector {
	return body.v.Add(r.Perp().Mult(body.w))
}

func (body *Body) KineticEnergy() float64 {
	// Need to do some fudging to avoid NaNs
	vsq := body.v.Dot(body.v)
	wsq := body.w * body.w
	var a, b float64
	if vsq != 0 {
		a = vsq * body.m
	}
	if wsq != 0 {
		b = wsq * body.i
	}
	return a + b
}

// Momentum returns the linear momentum, or the zero vector for a static body.
func (body *Body) Momentum() Vector {
	if body.IsStatic() {
		return Vector{}
	}
	return body.v.Mult(body.m)
}

func (body *Body) WorldToLocal(point Vector) Vector {
	return point.Sub(body.p).Unrotate(body.Rotation())
}

func (body *Body) LocalToWorld(point Vector) Vector {
	return point.Rotate(body.Rotation()).Add(body.p)
}

// apply_impulse kicks the body at offset r from its center of mass.
// Inverse mass factors are zero for static bodies, so they never move.
func apply_impulse(body *Body, j, r Vector) {
	body.v = body.v.Add(j.Mult(body.m_inv))
	body.w += body.i_inv * r.Cross(j)
}

// MomentForCircle computes the moment of inertia for a hollow circle.
// r1 and r2 are the inner and outer radii. A solid circle has an inner radius of 0.
func MomentForCircle(m, r1, r2 float64, offset Vector) float64 {
	return m * (0.5*(r1*r1+r2*r2) + offset.LengthSq())
}

// MomentForBox computes the moment of inertia for a solid box.
func MomentForBox(m, width, height float64) float64 {
	return m * (width*width + height*height) / 12.0
}
