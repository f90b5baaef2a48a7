package schema

// ProbTolerance is the floating-point slack allowed when checking that a
// probability triple sums to 1.0.
const ProbTolerance = 1e-6

// Probabilities is the three-way probability triple over the productive
// classes. Entries are each in [0,1] and sum to 1.0 within ProbTolerance.
type Probabilities struct {
	Customization float64 `json:"customization"`
	Upgrade       float64 `json:"upgrade"`
	Mix           float64 `json:"mix"`
}

// Classification is a probability triple plus its dominant class.
type Classification struct {
	Class Class         `json:"class"`
	Probs Probabilities `json:"probabilities"`
}

// SignalVector maps signal keys to values. Boolean signals are encoded as
// 0 or 1; scalar signals are normalized into [0,1]. Immutable once produced.
type SignalVector map[SignalKey]float64

// Valid reports whether the triple is a well-formed distribution.
func (p Probabilities) Valid() bool {
	for _, v := range []float64{p.Customization, p.Upgrade, p.Mix} {
		if v < 0 || v > 1 {
			return false
		}
	}
	sum := p.Customization + p.Upgrade + p.Mix
	return sum > 1-ProbTolerance && sum < 1+ProbTolerance
}

// Dominant returns the class with the highest probability. Mix wins exact
// ties so that genuine ambiguity is never forced into a binary pick.
func (p Probabilities) Dominant() Class {
	if p.Mix >= p.Customization && p.Mix >= p.Upgrade {
		return MixClass
	}
	if p.Customization >= p.Upgrade {
		return CustomizationClass
	}
	return UpgradeClass
}

// Scale returns the triple multiplied by a non-negative weight. The result is
// no longer a distribution; callers accumulate scaled triples and normalize.
func (p Probabilities) Scale(w float64) Probabilities {
	return Probabilities{
		Customization: p.Customization * w,
		Upgrade:       p.Upgrade * w,
		Mix:           p.Mix * w,
	}
}

// Add returns the entrywise sum of two triples.
func (p Probabilities) Add(q Probabilities) Probabilities {
	return Probabilities{
		Customization: p.Customization + q.Customization,
		Upgrade:       p.Upgrade + q.Upgrade,
		Mix:           p.Mix + q.Mix,
	}
}

// Normalize rescales the triple to sum to 1.0. A zero triple normalizes to
// itself so callers can detect the degenerate case explicitly.
func (p Probabilities) Normalize() Probabilities {
	sum := p.Customization + p.Upgrade + p.Mix
	if sum == 0 {
		return p
	}
	return Probabilities{
		Customization: p.Customization / sum,
		Upgrade:       p.Upgrade / sum,
		Mix:           p.Mix / sum,
	}
}

// Classify wraps a triple with its dominant class.
func Classify(p Probabilities) Classification {
	return Classification{Class: p.Dominant(), Probs: p}
}
