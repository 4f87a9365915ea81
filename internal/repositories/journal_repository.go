package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
)

const journalColumns = `id, customer_id, u_id, kind, content, is_active, create_time, update_time`

type JournalRepository struct {
	DB *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{DB: db}
}

func scanJournal(row pgx.Row) (*models.CustomerJournal, error) {
	var j models.CustomerJournal
	err := row.Scan(&j.ID, &j.CustomerID, &j.AuthorID, &j.Kind, &j.Content, &j.IsActive,
		&j.CreateTime, &j.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// insertJournal appends the entry and refreshes the lead's latest-journal
// snapshot. Shared with the customer repository transactions.
func insertJournal(ctx context.Context, tx pgx.Tx, j *models.CustomerJournal) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO customer_journals(customer_id, u_id, kind, content)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, is_active, create_time, update_time`,
		j.CustomerID, j.AuthorID, j.Kind, j.Content,
	).Scan(&j.ID, &j.IsActive, &j.CreateTime, &j.UpdateTime)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`UPDATE customers SET journal=$1, update_time=NOW() WHERE id=$2`,
		j.Content, j.CustomerID)
	return err
}

func (r *JournalRepository) Create(ctx context.Context, j *models.CustomerJournal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertJournal(ctx, tx, j); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *JournalRepository) Get(ctx context.Context, id int) (*models.CustomerJournal, error) {
	journal, err := scanJournal(r.DB.QueryRow(ctx,
		`SELECT `+journalColumns+` FROM customer_journals WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("journal %d not found", id)
	}
	return journal, err
}

func (r *JournalRepository) ListByCustomer(ctx context.Context, customerID, limit, offset int) ([]*models.CustomerJournal, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM customer_journals WHERE customer_id=$1 AND is_active`,
		customerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+journalColumns+` FROM customer_journals
		 WHERE customer_id=$1 AND is_active
		 ORDER BY id DESC LIMIT $2 OFFSET $3`,
		customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	journals := make([]*models.CustomerJournal, 0, limit)
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, 0, err
		}
		journals = append(journals, journal)
	}
	return journals, total, rows.Err()
}

func (r *JournalRepository) Update(ctx context.Context, j *models.CustomerJournal) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customer_journals SET content=$1, is_active=$2, update_time=NOW() WHERE id=$3`,
		j.Content, j.IsActive, j.ID)
	return err
}

// LatestAllotTime finds when the lead was last allotted, for the allot_gap
// display. Returns zero time when never allotted.
func (r *JournalRepository) LatestAllotTime(ctx context.Context, customerID int) (time.Time, error) {
	var t time.Time
	err := r.DB.QueryRow(ctx,
		`SELECT create_time FROM customer_journals
		 WHERE customer_id=$1 AND kind=$2 AND content LIKE 'allot to %'
		 ORDER BY id DESC LIMIT 1`,
		customerID, models.JournalKindSystem).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	return t, err
}
