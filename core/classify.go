package core

import (
	"math"
	"sort"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// maxTopSignals caps how many contributing signals a hunk result reports.
const maxTopSignals = 3

// HunkClassifier turns a signal vector into a calibrated probability triple.
// Scoring is a linear model over the configured weight table followed by a
// softmax, so the mapping is fully explainable: each signal's contribution to
// each class is weight * value.
type HunkClassifier struct {
	weights   map[schema.SignalKey]schema.ClassWeights
	mixMargin float64
}

// NewHunkClassifier creates a classifier from the run configuration.
func NewHunkClassifier(cfg *contract.Config) *HunkClassifier {
	return &HunkClassifier{
		weights:   cfg.Weights,
		mixMargin: cfg.MixMargin,
	}
}

// Classify scores a signal vector and returns the classification plus the
// signals that contributed most to the dominant class, strongest first.
func (c *HunkClassifier) Classify(v schema.SignalVector) (schema.Classification, []schema.SignalKey) {
	var sc, su, sm float64
	for _, k := range schema.AllSignalKeys {
		val := v[k]
		if val == 0 {
			continue
		}
		w := c.weights[k]
		sc += w.Customization * val
		su += w.Upgrade * val
		sm += w.Mix * val
	}

	probs := c.applyMixBoost(softmax3(sc, su, sm))
	cls := schema.Classify(probs)
	return cls, c.topSignals(v, cls.Class)
}

// softmax3 converts three raw scores into a probability triple. Scores are
// shifted by their maximum before exponentiation for numerical stability.
func softmax3(a, b, c float64) schema.Probabilities {
	m := math.Max(a, math.Max(b, c))
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	ec := math.Exp(c - m)
	sum := ea + eb + ec
	return schema.Probabilities{
		Customization: ea / sum,
		Upgrade:       eb / sum,
		Mix:           ec / sum,
	}
}

// applyMixBoost shifts probability mass toward the mix class when the top two
// classes are too close to call. The transfer is proportional to how far
// inside the margin the gap falls, so the mapping stays continuous: a gap at
// the margin transfers nothing, an exact tie transfers the most.
func (c *HunkClassifier) applyMixBoost(p schema.Probabilities) schema.Probabilities {
	if c.mixMargin <= 0 {
		return p
	}

	entries := []struct {
		cls  schema.Class
		prob float64
	}{
		{schema.CustomizationClass, p.Customization},
		{schema.UpgradeClass, p.Upgrade},
		{schema.MixClass, p.Mix},
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].prob > entries[j].prob
	})

	gap := entries[0].prob - entries[1].prob
	if gap >= c.mixMargin {
		return p
	}

	top := entries[0].prob + entries[1].prob
	boost := (c.mixMargin - gap) / c.mixMargin
	shift := 0.5 * boost * top
	// Take the shift from the top two in proportion to their mass, so an exact
	// tie hands half the contested mass to mix and ends up mix-dominant.
	for i := range 2 {
		take := shift * entries[i].prob / top
		switch entries[i].cls {
		case schema.CustomizationClass:
			p.Customization -= take
		case schema.UpgradeClass:
			p.Upgrade -= take
		case schema.MixClass:
			p.Mix -= take
		}
	}
	p.Mix += shift
	return p
}

// topSignals returns up to maxTopSignals keys ranked by their weighted
// contribution to the dominant class. Ties break on schema key order so the
// output is deterministic.
func (c *HunkClassifier) topSignals(v schema.SignalVector, dominant schema.Class) []schema.SignalKey {
	type contrib struct {
		key   schema.SignalKey
		score float64
		order int
	}
	var contribs []contrib
	for i, k := range schema.AllSignalKeys {
		val := v[k]
		if val == 0 {
			continue
		}
		w := c.weights[k]
		var s float64
		switch dominant {
		case schema.CustomizationClass:
			s = w.Customization * val
		case schema.UpgradeClass:
			s = w.Upgrade * val
		case schema.MixClass:
			s = w.Mix * val
		}
		if s > 0 {
			contribs = append(contribs, contrib{key: k, score: s, order: i})
		}
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		if contribs[i].score != contribs[j].score {
			return contribs[i].score > contribs[j].score
		}
		return contribs[i].order < contribs[j].order
	})

	n := min(len(contribs), maxTopSignals)
	keys := make([]schema.SignalKey, 0, n)
	for _, cb := range contribs[:n] {
		keys = append(keys, cb.key)
	}
	return keys
}
