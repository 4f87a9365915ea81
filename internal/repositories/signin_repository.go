package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-backend/internal/models"
)

type SigninRepository struct {
	DB *pgxpool.Pool
}

func NewSigninRepository(db *pgxpool.Pool) *SigninRepository {
	return &SigninRepository{DB: db}
}

// Record inserts today's check-in, crediting the scanning coach. Returns
// false without error when the user already signed in that day, so repeats
// stay idempotent and keep the original coach.
func (r *SigninRepository) Record(ctx context.Context, s *models.Signin) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`INSERT INTO signins(u_id, coach_id, sign_date) VALUES($1, $2, $3)
		 ON CONFLICT (u_id, sign_date) DO NOTHING`,
		s.UserID, s.CoachID, s.Date)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListDates returns the user's recent check-in dates, newest first.
func (r *SigninRepository) ListDates(ctx context.Context, userID, limit int) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT to_char(sign_date, 'YYYY-MM-DD') FROM signins
		 WHERE u_id=$1 ORDER BY sign_date DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
