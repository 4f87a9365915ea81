package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
)

const expenseColumns = `id, order_id, order_no, u_id, u_name, phone, operator_id,
	operator_name, course_id, course_name, reviewer_id, status, reason,
	create_time, update_time`

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.OrderID, &e.OrderNo, &e.UserID, &e.UserName, &e.Phone,
		&e.OperatorID, &e.OperatorName, &e.CourseID, &e.CourseName, &e.ReviewerID,
		&e.Status, &e.Reason, &e.CreateTime, &e.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) Get(ctx context.Context, id int) (*models.Expense, error) {
	expense, err := scanExpense(r.DB.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("expense %d not found", id)
	}
	return expense, err
}

// List pages through expenses, optionally filtered by member, order and
// status.
func (r *ExpenseRepository) List(ctx context.Context, userID, orderID int, status string, limit, offset int) ([]*models.Expense, int, error) {
	var conds []string
	var args []interface{}
	if userID > 0 {
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("u_id=$%d", len(args)))
	}
	if orderID > 0 {
		args = append(args, orderID)
		conds = append(conds, fmt.Sprintf("order_id=$%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.DB.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM expenses %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
			expenseColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	expenses := make([]*models.Expense, 0, limit)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, total, rows.Err()
}

// HasByOperator reports whether the staff member has recorded at least one
// redemption against the order.
func (r *ExpenseRepository) HasByOperator(ctx context.Context, orderID, operatorID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM expenses WHERE order_id=$1 AND operator_id=$2)`,
		orderID, operatorID).Scan(&exists)
	return exists, err
}

// UpdateMemberIdentity refreshes the denormalized member name and phone on
// the member's redemption records, mirroring the order-side cascade.
func (r *ExpenseRepository) UpdateMemberIdentity(ctx context.Context, userID int, name, phone string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE expenses SET u_name=$2, phone=$3, update_time=NOW() WHERE u_id=$1`,
		userID, name, phone)
	return err
}

// UpdateOperatorName refreshes the coach name snapshot on every redemption
// the coach operated.
func (r *ExpenseRepository) UpdateOperatorName(ctx context.Context, operatorID int, name string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE expenses SET operator_name=$2, update_time=NOW() WHERE operator_id=$1`,
		operatorID, name)
	return err
}

// ReviewTx applies a review verdict and its used_counts delta atomically.
// The expense update is guarded on the status the delta was computed from,
// so two racing reviews of the same expense cannot both apply a delta. The
// order row is clamped: a negative balance or one past limit_counts rolls
// the whole review back.
func (r *ExpenseRepository) ReviewTx(ctx context.Context, e *models.Expense, prior string, delta int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE expenses SET status=$1, reason=$2, reviewer_id=$3, update_time=NOW()
		 WHERE id=$4 AND status=$5`,
		e.Status, e.Reason, e.ReviewerID, e.ID, prior)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Conflict("expense %d was reviewed concurrently", e.ID)
	}

	if delta != 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE orders SET used_counts = used_counts + $1, update_time=NOW()
			 WHERE id=$2 AND used_counts + $1 >= 0 AND used_counts + $1 <= limit_counts`,
			delta, e.OrderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.Conflict("order %d session balance out of range", e.OrderID)
		}
	}

	return tx.Commit(ctx)
}
