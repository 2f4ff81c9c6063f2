package zdraw

import "math"

// Transform is a 4x4 homogeneous matrix restricted to 2D affine use.
// Elements are stored column-major, so a translation lives in elements
// 12 and 13. Only the 2D affine slots are ever non-trivial; the full
// 4x4 shape is kept so a transform can be handed to a native rendering
// context unchanged.
//
// Transforms compose by matrix multiplication. t.Concat(u) applies u
// first, then t:
//
//	t.Concat(u).Apply(p) == t.Apply(u.Apply(p))
type Transform [16]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation by (x, y).
func Translate(x, y float64) Transform {
	t := Identity()
	t[12] = x
	t[13] = y
	return t
}

// Rotate creates a rotation by angle degrees (clockwise on a y-down
// surface) around the pivot (aroundX, aroundY).
func Rotate(angleDeg, aroundX, aroundY float64) Transform {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	rot := Identity()
	rot[0] = cos
	rot[4] = -sin
	rot[1] = sin
	rot[5] = cos
	if aroundX == 0 && aroundY == 0 {
		return rot
	}
	return Translate(aroundX, aroundY).Concat(rot).Concat(Translate(-aroundX, -aroundY))
}

// Scale creates a uniform scale around the origin.
func Scale(factor float64) Transform {
	return ScaleXY(factor, factor, 0, 0)
}

// ScaleXY creates a non-uniform scale around the pivot (fromX, fromY).
func ScaleXY(factorX, factorY, fromX, fromY float64) Transform {
	s := Identity()
	s[0] = factorX
	s[5] = factorY
	if fromX == 0 && fromY == 0 {
		return s
	}
	return Translate(fromX, fromY).Concat(s).Concat(Translate(-fromX, -fromY))
}

// Concat returns the matrix product t x u. The result applies u first,
// then t, establishing u as a coordinate frame nested inside t.
func (t Transform) Concat(u Transform) Transform {
	var out Transform
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t[k*4+r] * u[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Apply transforms a point.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t[0]*p.X + t[4]*p.Y + t[12],
		Y: t[1]*p.X + t[5]*p.Y + t[13],
	}
}

// ApplyRect transforms the corners of r and returns their axis-aligned
// bounding box. For pure translation and scaling this is exact; under
// rotation it is the smallest enclosing rectangle.
func (t Transform) ApplyRect(r Rect) Rect {
	corners := []Point{
		t.Apply(Point{r.X, r.Y}),
		t.Apply(Point{r.Right(), r.Y}),
		t.Apply(Point{r.X, r.Bottom()}),
		t.Apply(Point{r.Right(), r.Bottom()}),
	}
	return boundsOf(corners)
}

// IsIdentity returns true if the transform is the identity matrix.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}
