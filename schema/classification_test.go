package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbabilitiesValid(t *testing.T) {
	tests := []struct {
		name  string
		probs Probabilities
		want  bool
	}{
		{"uniform", Probabilities{1.0 / 3, 1.0 / 3, 1.0 / 3}, true},
		{"degenerate", Probabilities{1, 0, 0}, true},
		{"within tolerance", Probabilities{0.5, 0.3, 0.2000000001}, true},
		{"sum too low", Probabilities{0.5, 0.3, 0.1}, false},
		{"sum too high", Probabilities{0.5, 0.5, 0.5}, false},
		{"negative entry", Probabilities{-0.1, 0.6, 0.5}, false},
		{"entry above one", Probabilities{1.2, -0.1, -0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.probs.Valid())
		})
	}
}

func TestProbabilitiesDominant(t *testing.T) {
	tests := []struct {
		name  string
		probs Probabilities
		want  Class
	}{
		{"customization wins", Probabilities{0.7, 0.2, 0.1}, CustomizationClass},
		{"upgrade wins", Probabilities{0.1, 0.8, 0.1}, UpgradeClass},
		{"mix wins", Probabilities{0.2, 0.2, 0.6}, MixClass},
		{"exact three-way tie goes to mix", Probabilities{1.0 / 3, 1.0 / 3, 1.0 / 3}, MixClass},
		{"mix ties top goes to mix", Probabilities{0.4, 0.2, 0.4}, MixClass},
		{"customization ties upgrade goes to customization", Probabilities{0.45, 0.45, 0.1}, CustomizationClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.probs.Dominant())
		})
	}
}

func TestProbabilitiesNormalize(t *testing.T) {
	p := Probabilities{2, 1, 1}.Normalize()
	assert.True(t, p.Valid())
	assert.InDelta(t, 0.5, p.Customization, ProbTolerance)
	assert.InDelta(t, 0.25, p.Upgrade, ProbTolerance)
	assert.InDelta(t, 0.25, p.Mix, ProbTolerance)

	zero := Probabilities{}.Normalize()
	assert.Equal(t, Probabilities{}, zero)
}

func TestProbabilitiesScaleAdd(t *testing.T) {
	a := Probabilities{0.5, 0.3, 0.2}.Scale(10)
	b := Probabilities{0.1, 0.8, 0.1}.Scale(30)
	sum := a.Add(b).Normalize()

	assert.True(t, sum.Valid())
	// 30 of 40 changed lines came from the upgrade-heavy triple.
	assert.InDelta(t, (0.5*10+0.1*30)/40, sum.Customization, ProbTolerance)
	assert.InDelta(t, (0.3*10+0.8*30)/40, sum.Upgrade, ProbTolerance)
}

func TestGetDefaultWeightsCoversAllSignals(t *testing.T) {
	weights := GetDefaultWeights()
	assert.Len(t, weights, len(AllSignalKeys))
	for _, key := range AllSignalKeys {
		_, ok := weights[key]
		assert.True(t, ok, "missing weights for signal %s", key)
	}
}
