package impulse

import "gonum.org/v1/gonum/mat"

// influence returns the change in relative normal velocity at contact ci per
// unit impulse applied at contact cj on the given body. The translational term
// couples the two normals through the body's mass; the rotational term feeds
// the induced angular velocity back into the velocity of ci's impact point.
// A body not involved in both contacts, or an immovable one, contributes
// nothing.
func influence(ci, cj *Contact, body *Body) float64 {
	if body.m_inv == 0 {
		return 0
	}

	var ri Vector
	switch body {
	case ci.PrimaryBody:
		ri = ci.R1
	case ci.NormalBody:
		ri = ci.R2
	default:
		return 0
	}

	var rj Vector
	var factor float64
	switch body {
	case cj.PrimaryBody:
		rj = cj.R1
		factor = 1
	case cj.NormalBody:
		rj = cj.R2
		factor = -1
	default:
		return 0
	}

	ni := ci.Normal
	nj := cj.Normal
	cross := rj.Cross(nj)

	return factor * (ni.X*(nj.X*body.m_inv-ri.Y*cross*body.i_inv) +
		ni.Y*(nj.Y*body.m_inv+ri.X*cross*body.i_inv))
}

// influence_matrix assembles the n×n matrix whose (i, k) entry is the change
// in normal velocity at contact i per unit impulse at contact k. The matrix is
// symmetric, so only the upper triangle is computed. Infinite-mass
// contributions drop out inside influence.
func influence_matrix(contacts []*Contact) *mat.SymDense {
	n := len(contacts)
	A := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		ci := contacts[i]
		for k := i; k < n; k++ {
			ck := contacts[k]
			A.SetSym(i, k, influence(ci, ck, ci.PrimaryBody)-influence(ci, ck, ci.NormalBody))
		}
	}
	return A
}
