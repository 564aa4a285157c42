package wtl

import "math"

//goldenMean is the reduction factor of the golden section step.
const goldenMean = 0.3819660112501051

//MinimizeBounded searches for a minimum of objective on the closed interval
//[lo, hi] with a derivative free Brent style procedure: golden section steps
//interleaved with parabolic interpolation where the fit is trustworthy.
//The objective is not required to be smooth or convex. The returned point is
//always inside [lo, hi]; converged reports whether the interval shrank below
//the tolerance within the iteration budget. When it did not, the best point
//seen so far is still returned.
func MinimizeBounded(objective func(float64) float64, lo, hi, xatol float64, maxIter int) (xmin float64, converged bool) {
	sqrtEps := math.Sqrt(2.2e-16)
	a, b := lo, hi

	xf := a + goldenMean*(b-a)
	nfc, fulc := xf, xf
	rat, e := 0.0, 0.0

	fx := objective(xf)
	fnfc, ffulc := fx, fx

	xm := 0.5 * (a + b)
	tol1 := sqrtEps*math.Abs(xf) + xatol/3.0
	tol2 := 2.0 * tol1

	for iter := 0; math.Abs(xf-xm) > tol2-0.5*(b-a); iter++ {
		if iter >= maxIter {
			return xf, false
		}

		golden := true
		if math.Abs(e) > tol1 {
			// parabolic fit through (xf, nfc, fulc)
			r := (xf - nfc) * (fx - ffulc)
			q := (xf - fulc) * (fx - fnfc)
			p := (xf-fulc)*q - (xf-nfc)*r
			q = 2.0 * (q - r)
			if q > 0.0 {
				p = -p
			}
			q = math.Abs(q)
			r = e
			e = rat

			if math.Abs(p) < math.Abs(0.5*q*r) && p > q*(a-xf) && p < q*(b-xf) {
				golden = false
				rat = p / q
				x := xf + rat
				// keep the probe away from the interval ends
				if x-a < tol2 || b-x < tol2 {
					rat = math.Copysign(tol1, xm-xf)
					if xm == xf {
						rat = tol1
					}
				}
			}
		}

		if golden {
			if xf >= xm {
				e = a - xf
			} else {
				e = b - xf
			}
			rat = goldenMean * e
		}

		step := math.Copysign(math.Max(math.Abs(rat), tol1), rat)
		if rat == 0.0 {
			step = tol1
		}
		x := xf + step
		fu := objective(x)

		if fu <= fx {
			if x >= xf {
				a = xf
			} else {
				b = xf
			}
			fulc, ffulc = nfc, fnfc
			nfc, fnfc = xf, fx
			xf, fx = x, fu
		} else {
			if x < xf {
				a = x
			} else {
				b = x
			}
			if fu <= fnfc || nfc == xf {
				fulc, ffulc = nfc, fnfc
				nfc, fnfc = x, fu
			} else if fu <= ffulc || fulc == xf || fulc == nfc {
				fulc, ffulc = x, fu
			}
		}

		xm = 0.5 * (a + b)
		tol1 = sqrtEps*math.Abs(xf) + xatol/3.0
		tol2 = 2.0 * tol1
	}

	return xf, true
}
