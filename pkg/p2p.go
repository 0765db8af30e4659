package simtrees

import "math"

// ComputeP2P fills the p2p column of the record from its traces. For
// every detector unit it stores the peak-to-peak amplitude of each
// axis and of the modulus trace sqrt(x^2+y^2+z^2), laid out as four
// blocks of du_count entries: all x, all y, all z, all modulus.
//
// The three traces of a detector unit have to be sampled on the same
// window, so their lengths must match.
func ComputeP2P(r *EfieldRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	n := r.TraceX.Len()
	p2p := make([]float32, 4*n)
	for i := 0; i < n; i++ {
		tx := r.TraceX.At(i)
		ty := r.TraceY.At(i)
		tz := r.TraceZ.At(i)
		if len(ty) != len(tx) {
			return &ErrLengthMismatch{Field: "trace_y", Want: len(tx), Got: len(ty)}
		}
		if len(tz) != len(tx) {
			return &ErrLengthMismatch{Field: "trace_z", Want: len(tx), Got: len(tz)}
		}
		mod := make([]float32, len(tx))
		for j := range tx {
			mod[j] = float32(math.Sqrt(float64(tx[j])*float64(tx[j]) +
				float64(ty[j])*float64(ty[j]) + float64(tz[j])*float64(tz[j])))
		}
		p2p[i] = peakToPeak(tx)
		p2p[n+i] = peakToPeak(ty)
		p2p[2*n+i] = peakToPeak(tz)
		p2p[3*n+i] = peakToPeak(mod)
	}
	r.P2P.Set(p2p)
	return nil
}

func peakToPeak(trace []float32) float32 {
	if len(trace) == 0 {
		return 0
	}
	min, max := trace[0], trace[0]
	for _, v := range trace[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}
