package drive

import "math"

// plateau tracks the running best fitness across generation boundaries and
// detects when it stops changing.
type plateau struct {
	best     float64 // running best, -Inf before the first boundary
	previous float64 // running best after the previous boundary
	seen     bool    // a previous boundary exists
	history  []float64
}

func newPlateau() *plateau {
	return &plateau{best: math.Inf(-1), previous: math.Inf(-1)}
}

// update folds the best fitness of a generation into the running best. It
// reports whether the candidate improved on it and whether the running best
// is bitwise equal to the one of the previous boundary.
func (p *plateau) update(candidate float64) (improved, flat bool) {
	if candidate > p.best {
		p.best = candidate
		improved = true
	}
	flat = p.seen && p.best == p.previous
	p.previous = p.best
	p.seen = true
	p.history = append(p.history, p.best)
	return improved, flat
}

// restore puts the tracker back into the state of a checkpointed run.
func (p *plateau) restore(best float64, history []float64) {
	p.history = append([]float64(nil), history...)
	p.best, p.previous, p.seen = best, best, true
}
