package evaluation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func score(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestEvaluateBid_MissingCriteria(t *testing.T) {
	svc := NewEvaluationService(nil, nil, nil)

	_, err := svc.EvaluateBid(context.Background(), uuid.New(), uuid.New(), Scores{
		Price:   score(8),
		Quality: score(7),
		// timeline and experience omitted
	})
	assert.ErrorIs(t, err, ErrMissingCriteria)
}

func TestEvaluateBid_ScoreOutOfRange(t *testing.T) {
	svc := NewEvaluationService(nil, nil, nil)

	tests := []struct {
		name   string
		scores Scores
	}{
		{
			name:   "above ten",
			scores: Scores{Price: score(11), Quality: score(7), Timeline: score(7), Experience: score(7)},
		},
		{
			name:   "negative",
			scores: Scores{Price: score(8), Quality: score(-1), Timeline: score(7), Experience: score(7)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EvaluateBid(context.Background(), uuid.New(), uuid.New(), tt.scores)
			assert.ErrorIs(t, err, ErrScoreOutOfRange)
		})
	}
}
