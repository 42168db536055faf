package render

type Tone int

const (
	ToneLow Tone = iota
	ToneMedium
	ToneHigh
)

type Rating struct {
	Label string
	Tone  Tone
}

type threshold struct {
	min    float64
	rating Rating
}

var ratings = []threshold{
	{min: 90, rating: Rating{Label: "Excellent", Tone: ToneHigh}},
	{min: 80, rating: Rating{Label: "Very good", Tone: ToneHigh}},
	{min: 70, rating: Rating{Label: "Good", Tone: ToneMedium}},
	{min: 60, rating: Rating{Label: "Fair", Tone: ToneMedium}},
}

var defaultRating = Rating{Label: "Average", Tone: ToneLow}

// Rate maps a 0-100 score to a label and a color tone.
func Rate(score float64) Rating {
	for _, t := range ratings {
		if score >= t.min {
			return t.rating
		}
	}
	return defaultRating
}
