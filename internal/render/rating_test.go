package render

import "testing"

func TestRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		label string
		tone  Tone
	}{
		{score: 100, label: "Excellent", tone: ToneHigh},
		{score: 90, label: "Excellent", tone: ToneHigh},
		{score: 89.9, label: "Very good", tone: ToneHigh},
		{score: 80, label: "Very good", tone: ToneHigh},
		{score: 75, label: "Good", tone: ToneMedium},
		{score: 60, label: "Fair", tone: ToneMedium},
		{score: 59, label: "Average", tone: ToneLow},
		{score: 0, label: "Average", tone: ToneLow},
		{score: -5, label: "Average", tone: ToneLow},
	}

	for _, tt := range tests {
		got := Rate(tt.score)
		if got.Label != tt.label || got.Tone != tt.tone {
			t.Fatalf("score %v: expected %s/%d, got %s/%d", tt.score, tt.label, tt.tone, got.Label, got.Tone)
		}
	}
}
