package evaluation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
)

// Weights are the normalized criterion weights used for scoring. The
// reviews percentage from the auction's criteria has no matching
// evaluator sub-score, so normalization runs over the four scored
// dimensions only.
type Weights struct {
	Price      decimal.Decimal
	Quality    decimal.Decimal
	Timeline   decimal.Decimal
	Experience decimal.Decimal
}

// NormalizeWeights converts criteria percentages into weights summing to
// 1. Absent or all-zero criteria fall back to equal weighting.
func NormalizeWeights(c models.EvaluationCriteria) Weights {
	p := decimal.NewFromFloat(c.Price)
	q := decimal.NewFromFloat(c.Quality)
	t := decimal.NewFromFloat(c.Timeline)
	e := decimal.NewFromFloat(c.Experience)
	sum := p.Add(q).Add(t).Add(e)
	if sum.IsZero() {
		quarter := decimal.NewFromFloat(0.25)
		return Weights{Price: quarter, Quality: quarter, Timeline: quarter, Experience: quarter}
	}
	return Weights{
		Price:      p.Div(sum),
		Quality:    q.Div(sum),
		Timeline:   t.Div(sum),
		Experience: e.Div(sum),
	}
}

// WeightedTotal computes the weighted total of one set of sub-scores,
// rounded to two decimal places.
func WeightedTotal(w Weights, price, quality, timeline, experience decimal.Decimal) decimal.Decimal {
	total := price.Mul(w.Price).
		Add(quality.Mul(w.Quality)).
		Add(timeline.Mul(w.Timeline)).
		Add(experience.Mul(w.Experience))
	return total.Round(2)
}

// ScoreBids aggregates all evaluations of an auction into one total per
// bid. Evaluators' sub-scores are averaged per criterion first and
// weighted after, so evaluator count cannot skew the weighting. Bids
// without any evaluation are absent from the result.
func ScoreBids(criteria models.EvaluationCriteria, evals []models.BidEvaluation) map[uuid.UUID]decimal.Decimal {
	type sums struct {
		price, quality, timeline, experience decimal.Decimal
		n                                    int64
	}
	perBid := map[uuid.UUID]*sums{}
	for i := range evals {
		ev := &evals[i]
		s, ok := perBid[ev.BidID]
		if !ok {
			s = &sums{}
			perBid[ev.BidID] = s
		}
		s.price = s.price.Add(ev.PriceScore)
		s.quality = s.quality.Add(ev.QualityScore)
		s.timeline = s.timeline.Add(ev.TimelineScore)
		s.experience = s.experience.Add(ev.ExperienceScore)
		s.n++
	}

	w := NormalizeWeights(criteria)
	out := make(map[uuid.UUID]decimal.Decimal, len(perBid))
	for bidID, s := range perBid {
		n := decimal.NewFromInt(s.n)
		out[bidID] = WeightedTotal(w,
			s.price.Div(n), s.quality.Div(n), s.timeline.Div(n), s.experience.Div(n))
	}
	return out
}
