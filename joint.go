package impulse

// PinJoint keeps two anchor points, one on each body, at a fixed separation.
// It feeds the resolver one bilateral contact per call: the relative velocity
// of the anchors along the pin axis must end at zero, with the impulse free to
// push or pull. Anchors are local offsets from each body's center of mass.
type PinJoint struct {
	A, B             *Body
	AnchorA, AnchorB Vector
}

func NewPinJoint(a, b *Body, anchorA, anchorB Vector) *PinJoint {
	return &PinJoint{A: a, B: b, AnchorA: anchorA, AnchorB: anchorB}
}

// Contact emits the joint's contact descriptor for the current body state.
// The normal runs along the anchor separation; for coincident anchors it
// falls back to the direction of the relative anchor velocity, which is the
// direction the constraint has to act in.
func (joint *PinJoint) Contact() *Contact {
	a := joint.A
	b := joint.B
	r1 := joint.AnchorA.Rotate(a.Rotation())
	r2 := joint.AnchorB.Rotate(b.Rotation())

	delta := a.p.Add(r1).Sub(b.p.Add(r2))
	n := Vector{}
	if dist := delta.Length(); dist != 0 {
		n = delta.Mult(1 / dist)
	} else if vr := a.VelocityAtPoint(r1).Sub(b.VelocityAtPoint(r2)); vr.LengthSq() != 0 {
		n = vr.Normalize()
	}

	return NewContact(a, b, r1, r2, n, true)
}

// PivotJoint pins a point on each body together, constraining the relative
// anchor velocity in both directions. It emits two bilateral contacts with
// orthogonal normals; the influence matrix couples the pair and the solver
// drives both components to zero at once.
type PivotJoint struct {
	A, B             *Body
	AnchorA, AnchorB Vector
}

func NewPivotJoint(a, b *Body, anchorA, anchorB Vector) *PivotJoint {
	return &PivotJoint{A: a, B: b, AnchorA: anchorA, AnchorB: anchorB}
}

func (joint *PivotJoint) Contacts() []*Contact {
	a := joint.A
	b := joint.B
	r1 := joint.AnchorA.Rotate(a.Rotation())
	r2 := joint.AnchorB.Rotate(b.Rotation())

	return []*Contact{
		NewContact(a, b, r1, r2, Vector{1, 0}, true),
		NewContact(a, b, r1, r2, Vector{0, 1}, true),
	}
}
