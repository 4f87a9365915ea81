package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
)

const orderColumns = `id, order_no, u_id, u_name, phone, course_id, course_name, bill_type,
	bill_desc, amount, status, used_counts, limit_counts, expire_time, comments, receipt,
	contract, notified, create_time, update_time`

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var expire *time.Time
	err := row.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.UserName, &o.Phone, &o.CourseID,
		&o.CourseName, &o.BillType, &o.BillDesc, &o.Amount, &o.Status, &o.UsedCounts,
		&o.LimitCounts, &expire, &o.Comments, &o.Receipt, &o.Contract, &o.Notified,
		&o.CreateTime, &o.UpdateTime)
	if err != nil {
		return nil, err
	}
	if expire != nil {
		o.ExpireTime = *expire
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	var expire *time.Time
	if !o.ExpireTime.IsZero() {
		expire = &o.ExpireTime
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO orders(order_no, u_id, u_name, phone, course_id, course_name, bill_type,
		 bill_desc, amount, status, used_counts, limit_counts, expire_time, comments, receipt, contract)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, create_time, update_time`,
		o.OrderNo, o.UserID, o.UserName, o.Phone, o.CourseID, o.CourseName, o.BillType,
		o.BillDesc, o.Amount, o.Status, o.UsedCounts, o.LimitCounts, expire, o.Comments,
		o.Receipt, o.Contract,
	).Scan(&o.ID, &o.CreateTime, &o.UpdateTime)
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	order, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order %d not found", id)
	}
	return order, err
}

// List pages through orders. userID and status are optional filters; a zero
// userID means all members.
func (r *OrderRepository) List(ctx context.Context, userID int, status string, limit, offset int) ([]*models.Order, int, error) {
	var conds []string
	var args []interface{}
	if userID > 0 {
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("u_id=$%d", len(args)))
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
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.DB.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
			orderColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	var expire *time.Time
	if !o.ExpireTime.IsZero() {
		expire = &o.ExpireTime
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET status=$1, used_counts=$2, limit_counts=$3, expire_time=$4,
		 comments=$5, receipt=$6, contract=$7, notified=$8, update_time=NOW()
		 WHERE id=$9`,
		o.Status, o.UsedCounts, o.LimitCounts, expire, o.Comments, o.Receipt, o.Contract,
		o.Notified, o.ID)
	return err
}

// ExpireOverdue flips every activated order past its expire_time to expired
// and returns how many were flipped. The status guard makes the nightly
// sweep idempotent and keeps refunds untouched.
func (r *OrderRepository) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE orders SET status=$1, update_time=NOW()
		 WHERE status=$2 AND expire_time IS NOT NULL AND expire_time < $3`,
		models.OrderStatusExpired, models.OrderStatusActivated, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// NotifyCandidate is an order worth a reminder, with enough of its owner to
// address the push.
type NotifyCandidate struct {
	Order  models.Order
	OpenID string
	Quota  int
}

// ListNotifyCandidates returns activated, not-yet-notified orders that are
// about to run out: by-day passes expiring before the horizon, by-count
// passes with at most two sessions left. Only members with push quota are
// considered. Ordered by member so the caller can batch per member.
func (r *OrderRepository) ListNotifyCandidates(ctx context.Context, horizon time.Time, limit int) ([]*NotifyCandidate, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+prefixColumns("o", orderColumns)+`, u.openid, u.subscribe_quota
		 FROM orders o
		 JOIN users u ON u.id = o.u_id
		 WHERE o.status=$1 AND NOT o.notified
		   AND u.is_active AND u.subscribe_quota > 0
		   AND ((o.bill_type=$2 AND o.expire_time IS NOT NULL AND o.expire_time < $3)
		     OR (o.bill_type=$4 AND o.limit_counts - o.used_counts <= 2))
		 ORDER BY o.u_id, o.create_time
		 LIMIT $5`,
		models.OrderStatusActivated, models.BillTypeDay, horizon, models.BillTypeCount, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*NotifyCandidate
	for rows.Next() {
		var c NotifyCandidate
		var expire *time.Time
		o := &c.Order
		err := rows.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.UserName, &o.Phone, &o.CourseID,
			&o.CourseName, &o.BillType, &o.BillDesc, &o.Amount, &o.Status, &o.UsedCounts,
			&o.LimitCounts, &expire, &o.Comments, &o.Receipt, &o.Contract, &o.Notified,
			&o.CreateTime, &o.UpdateTime, &c.OpenID, &c.Quota)
		if err != nil {
			return nil, err
		}
		if expire != nil {
			o.ExpireTime = *expire
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// MarkNotified flags orders as reminded so the sweep never pushes twice for
// the same order.
func (r *OrderRepository) MarkNotified(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET notified=TRUE, update_time=NOW() WHERE id = ANY($1::int[])`, ids)
	return err
}

// RedeemTx deducts one session from the order and records the expense inside
// a single transaction. The guarded UPDATE re-checks billing kind, status,
// expiry and remaining count so concurrent scans cannot overdraw.
func (r *OrderRepository) RedeemTx(ctx context.Context, orderID int, expense *models.Expense, now time.Time) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET used_counts = used_counts + 1, update_time=NOW()
		 WHERE id=$1 AND status=$2 AND bill_type=$3 AND used_counts < limit_counts
		   AND (expire_time IS NULL OR expire_time >= $4)`,
		orderID, models.OrderStatusActivated, models.BillTypeCount, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Conflict("order %d is not redeemable", orderID)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO expenses(order_id, order_no, u_id, u_name, phone, operator_id,
		 operator_name, course_id, course_name, status)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, create_time, update_time`,
		orderID, expense.OrderNo, expense.UserID, expense.UserName, expense.Phone,
		expense.OperatorID, expense.OperatorName, expense.CourseID, expense.CourseName,
		expense.Status,
	).Scan(&expense.ID, &expense.CreateTime, &expense.UpdateTime)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateMemberIdentity refreshes the denormalized member name and phone on
// every order the member holds. Part of the best-effort cascade after a
// privileged user edit.
func (r *OrderRepository) UpdateMemberIdentity(ctx context.Context, userID int, name, phone string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET u_name=$2, phone=$3, update_time=NOW() WHERE u_id=$1`,
		userID, name, phone)
	return err
}
