package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Insert(ctx context.Context, q *models.AuctionQuestion) error {
	const ins = `
	INSERT INTO auction_questions (id, auction_id, asker_id, question, is_public, created_at)
	VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.ExecContext(ctx, ins,
		q.ID, q.AuctionID, q.AskerID, q.Question, q.IsPublic, q.CreatedAt)
	return err
}

// Answer records the vendor's answer exactly once.
func (r *QuestionRepository) Answer(ctx context.Context, questionID, answeredBy uuid.UUID, answer string, at time.Time) (*models.AuctionQuestion, error) {
	const q = `
	UPDATE auction_questions
	   SET answer = $2, answered_by = $3, answered_at = $4, is_answered = TRUE
	 WHERE id = $1 AND NOT is_answered
	 RETURNING id, auction_id, asker_id, question, answer, answered_by, answered_at, is_answered, is_public, created_at`
	row := r.db.QueryRowContext(ctx, q, questionID, answer, answeredBy, at)
	out, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func scanQuestion(row interface{ Scan(...any) error }) (*models.AuctionQuestion, error) {
	q := &models.AuctionQuestion{}
	var answer sql.NullString
	var answeredAt sql.NullTime
	err := row.Scan(&q.ID, &q.AuctionID, &q.AskerID, &q.Question, &answer,
		&q.AnsweredBy, &answeredAt, &q.IsAnswered, &q.IsPublic, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	q.Answer = answer.String
	if answeredAt.Valid {
		t := answeredAt.Time
		q.AnsweredAt = &t
	}
	return q, nil
}

func (r *QuestionRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID, publicOnly bool) ([]models.AuctionQuestion, error) {
	q := `
	SELECT id, auction_id, asker_id, question, answer, answered_by, answered_at, is_answered, is_public, created_at
	  FROM auction_questions WHERE auction_id = $1`
	if publicOnly {
		q += ` AND is_public`
	}
	q += ` ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.AuctionQuestion
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *item)
	}
	return list, rows.Err()
}
