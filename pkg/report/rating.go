package report

import "github.com/shopspring/decimal"

const (
	LabelPerfect = "Perfect"
	LabelAverage = "Average"
	LabelPoor    = "Poor"
)

// Rating is a coarse savings grade derived from the net balance only.
type Rating struct {
	Points  int
	Label   string
	Message string
}

var ratingLadder = []struct {
	above  decimal.Decimal
	points int
}{
	{decimal.Zero, 1},
	{decimal.NewFromInt(100), 1},
	{decimal.NewFromInt(500), 1},
	{decimal.NewFromInt(1000), 1},
	{decimal.NewFromInt(10000), 6},
}

// RatingFromNet scores net against every threshold independently; the
// thresholds are cumulative, so anything above 10000 scores all ten points.
// The reachable scores are 0 to 4 and 10, so LabelAverage is never
// returned. The 5 to 9 band is kept so the labels stay complete.
func RatingFromNet(net decimal.Decimal) Rating {
	points := 0
	for _, step := range ratingLadder {
		if net.GreaterThan(step.above) {
			points += step.points
		}
	}

	switch {
	case points == 10:
		return Rating{Points: points, Label: LabelPerfect, Message: "This means your savings are perfect."}
	case points >= 5:
		return Rating{Points: points, Label: LabelAverage, Message: "This means your savings are average."}
	default:
		return Rating{Points: points, Label: LabelPoor, Message: "Your savings are in poor condition."}
	}
}
