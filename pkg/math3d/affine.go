package math3d

// Affine is a linear map followed by a translation: p' = Linear·p + Offset.
// Scene loaders use it to fit imported geometry into the unit volume.
type Affine struct {
	Linear Mat3
	Offset Vec3
}

// Translation returns a transform that moves points by v.
func Translation(v Vec3) Affine {
	return Affine{Linear: Identity3(), Offset: v}
}

// Scaling returns a transform that scales each axis by the matching
// component of v. Negative components mirror that axis.
func Scaling(v Vec3) Affine {
	return Affine{Linear: Mat3FromCols(V3(v.X, 0, 0), V3(0, v.Y, 0), V3(0, 0, v.Z))}
}

// Mul composes two transforms; the result applies b first, then a.
func (a Affine) Mul(b Affine) Affine {
	return Affine{
		Linear: a.Linear.Mul(b.Linear),
		Offset: a.Linear.MulVec3(b.Offset).Add(a.Offset),
	}
}

// Apply transforms a point.
func (a Affine) Apply(p Vec3) Vec3 {
	return a.Linear.MulVec3(p).Add(a.Offset)
}

// Mirrors reports whether the transform flips handedness, which reverses
// the winding of every triangle it maps.
func (a Affine) Mirrors() bool {
	return a.Linear.Determinant() < 0
}
