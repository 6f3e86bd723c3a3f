package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kirinyoku/tourdash/internal/domain"
)

func TestClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name  string
		count int64
		want  domain.CrowdStatus
	}{
		{name: "zero", count: 0, want: domain.CrowdLow},
		{name: "just below high", count: 14999, want: domain.CrowdLow},
		{name: "high boundary", count: 15000, want: domain.CrowdHigh},
		{name: "just below critical", count: 24999, want: domain.CrowdHigh},
		{name: "critical boundary", count: 25000, want: domain.CrowdCritical},
		{name: "far above", count: 1_000_000, want: domain.CrowdCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Classify(tt.count))
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	th := DefaultThresholds()

	prev := th.Classify(0).Severity()
	for c := int64(0); c <= 40000; c += 250 {
		cur := th.Classify(c).Severity()
		assert.GreaterOrEqual(t, cur, prev, "count %d", c)
		prev = cur
	}
}

func TestThresholdsNormalize(t *testing.T) {
	got := Thresholds{High: 20000, Critical: 10000}.Normalize()
	assert.Equal(t, Thresholds{High: 20000, Critical: 20000}, got)

	assert.Equal(t, DefaultThresholds(), Thresholds{}.Normalize())
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	in := []domain.Place{{Name: "Amber Fort", CrowdCount: 26000}}

	out := DefaultThresholds().Annotate(in)

	assert.Equal(t, domain.CrowdCritical, out[0].CrowdStatus)
	assert.Empty(t, in[0].CrowdStatus)
}

func TestHeatPoints(t *testing.T) {
	places := []domain.Place{
		{Name: "Hawa Mahal", City: "Jaipur", CrowdCount: 15000},
		{Name: "Somewhere", City: "Atlantis", CrowdCount: 100},
		{Name: "Lake Pichola", City: "", District: "Udaipur", CrowdCount: 90000},
	}

	pts := HeatPoints(places)

	if assert.Len(t, pts, 2) {
		assert.Equal(t, "Hawa Mahal", pts[0].Place)
		assert.InDelta(t, 0.5, pts[0].Intensity, 1e-9)
		assert.Equal(t, "Lake Pichola", pts[1].Place)
		assert.Equal(t, 1.0, pts[1].Intensity)
	}
}
