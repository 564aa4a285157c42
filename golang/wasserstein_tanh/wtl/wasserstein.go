package wtl

import (
	"math"
	"sort"
)

//Wasserstein computes the exact first order earth mover distance between two
//one-dimensional empirical samples. The samples may have different sizes.
//Both arguments are left untouched.
func Wasserstein(u, v []float64) float64 {
	us := append([]float64(nil), u...)
	vs := append([]float64(nil), v...)
	sort.Float64s(us)
	sort.Float64s(vs)
	return wassersteinSorted(us, vs)
}

//wassersteinSorted integrates the absolute difference of the two empirical
//cumulative distribution functions over a merged sweep of both sorted samples.
func wassersteinSorted(us, vs []float64) float64 {
	nu, nv := float64(len(us)), float64(len(vs))
	iu, iv := 0, 0

	distance := 0.0
	prev := math.Min(us[0], vs[0])

	for iu < len(us) || iv < len(vs) {
		var current float64
		if iu < len(us) && (iv >= len(vs) || us[iu] <= vs[iv]) {
			current = us[iu]
		} else {
			current = vs[iv]
		}

		// on (prev, current) both empirical CDFs are constant
		distance += math.Abs(float64(iu)/nu-float64(iv)/nv) * (current - prev)

		for iu < len(us) && us[iu] == current {
			iu++
		}
		for iv < len(vs) && vs[iv] == current {
			iv++
		}
		prev = current
	}

	return distance
}
