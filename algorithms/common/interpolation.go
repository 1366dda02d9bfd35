package common

// QuadFrom3Points fits y = a*x^2 + b*x + c through (x0,y0), (x1,y1), (x2,y2)
// and returns the abscissa and ordinate of its vertex. The abscissas must be
// distinct. When the points are collinear there is no vertex and (x1, y1)
// is returned.
//
// The fit is done in coordinates relative to x1, which keeps the
// cancellation small when the abscissas are large compared to their spacing
// (log-frequency axes sit around 5..12 with steps of a few hundredths).
func QuadFrom3Points(x0, y0, x1, y1, x2, y2 float64) (xv, yv float64) {
	u0 := x0 - x1
	u2 := x2 - x1
	d0 := y0 - y1
	d2 := y2 - y1

	det := u0 * u2 * (u0 - u2)
	if det == 0 {
		return x1, y1
	}

	a := (d0*u2 - d2*u0) / det
	b := (u0*u0*d2 - u2*u2*d0) / det
	if a == 0 {
		return x1, y1
	}

	xv = x1 - b/(2*a)
	yv = y1 - b*b/(4*a)
	return xv, yv
}
