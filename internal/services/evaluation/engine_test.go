package evaluation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNormalizeWeights(t *testing.T) {
	t.Run("percentages become fractions", func(t *testing.T) {
		w := NormalizeWeights(models.EvaluationCriteria{Price: 40, Quality: 30, Timeline: 20, Experience: 10})
		assert.True(t, w.Price.Equal(dec("0.4")))
		assert.True(t, w.Quality.Equal(dec("0.3")))
		assert.True(t, w.Timeline.Equal(dec("0.2")))
		assert.True(t, w.Experience.Equal(dec("0.1")))
	})

	t.Run("weights not summing to 100 still normalize", func(t *testing.T) {
		w := NormalizeWeights(models.EvaluationCriteria{Price: 1, Quality: 1, Timeline: 1, Experience: 1})
		assert.True(t, w.Price.Equal(dec("0.25")))
	})

	t.Run("all-zero criteria fall back to equal weighting", func(t *testing.T) {
		w := NormalizeWeights(models.EvaluationCriteria{})
		assert.True(t, w.Price.Equal(dec("0.25")))
		assert.True(t, w.Experience.Equal(dec("0.25")))
	})

	t.Run("reviews weight is not scored", func(t *testing.T) {
		// 40+40+20 scored weights plus reviews 20: normalization runs
		// over the scored dimensions only.
		w := NormalizeWeights(models.EvaluationCriteria{Price: 40, Quality: 40, Timeline: 20, Reviews: 20})
		assert.True(t, w.Price.Equal(dec("0.4")))
		assert.True(t, w.Experience.IsZero())
	})
}

func TestWeightedTotal_RoundsToTwoPlaces(t *testing.T) {
	w := NormalizeWeights(models.EvaluationCriteria{Price: 1, Quality: 1, Timeline: 1, Experience: 0})
	total := WeightedTotal(w, dec("7"), dec("8"), dec("9"), dec("0"))
	assert.True(t, total.Equal(dec("8")), "got %s", total)

	total = WeightedTotal(w, dec("7"), dec("7"), dec("8"), dec("0"))
	// (7+7+8)/3 = 7.3333... -> 7.33
	assert.True(t, total.Equal(dec("7.33")), "got %s", total)
}

func TestScoreBids_AveragesPerCriterionThenWeights(t *testing.T) {
	criteria := models.EvaluationCriteria{Price: 50, Quality: 50}
	bidID := uuid.New()

	evals := []models.BidEvaluation{
		{BidID: bidID, EvaluatorID: uuid.New(), PriceScore: dec("6"), QualityScore: dec("10")},
		{BidID: bidID, EvaluatorID: uuid.New(), PriceScore: dec("8"), QualityScore: dec("4")},
	}

	scores := ScoreBids(criteria, evals)
	require.Len(t, scores, 1)
	// avg price 7, avg quality 7 -> 7*0.5 + 7*0.5 = 7
	assert.True(t, scores[bidID].Equal(dec("7")), "got %s", scores[bidID])
}

func TestScoreBids_UnevaluatedBidAbsent(t *testing.T) {
	criteria := models.EvaluationCriteria{Price: 100}
	evaluated := uuid.New()

	scores := ScoreBids(criteria, []models.BidEvaluation{
		{BidID: evaluated, EvaluatorID: uuid.New(), PriceScore: dec("9")},
	})
	require.Len(t, scores, 1)
	_, ok := scores[uuid.New()]
	assert.False(t, ok)
	assert.True(t, scores[evaluated].Equal(dec("9")))
}

func TestScoreBids_RanksAcrossBids(t *testing.T) {
	criteria := models.EvaluationCriteria{Price: 40, Quality: 30, Timeline: 20, Experience: 10}
	strong, weak := uuid.New(), uuid.New()

	scores := ScoreBids(criteria, []models.BidEvaluation{
		{BidID: strong, EvaluatorID: uuid.New(), PriceScore: dec("8"), QualityScore: dec("9"), TimelineScore: dec("9"), ExperienceScore: dec("9")},
		{BidID: weak, EvaluatorID: uuid.New(), PriceScore: dec("6"), QualityScore: dec("5"), TimelineScore: dec("5"), ExperienceScore: dec("5")},
	})
	require.Len(t, scores, 2)
	assert.True(t, scores[strong].Equal(dec("8.6")), "got %s", scores[strong])
	assert.True(t, scores[weak].Equal(dec("5.4")), "got %s", scores[weak])
	assert.True(t, scores[strong].GreaterThan(scores[weak]))
}
