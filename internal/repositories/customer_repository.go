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

// u_id is NULL for public leads; the scan maps that to a zero owner id.
const customerColumns = `id, cname, brand, domain, contact_name, contact_position, qq,
	wechat, email, phone, address, remark, journal, pool, COALESCE(u_id, 0),
	is_active, create_time, update_time`

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Brand, &c.Domain, &c.ContactName, &c.ContactPosition,
		&c.QQ, &c.Wechat, &c.Email, &c.Phone, &c.Address, &c.Remark, &c.Journal, &c.Schema,
		&c.OwnerID, &c.IsActive, &c.CreateTime, &c.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func insertCustomer(ctx context.Context, tx pgx.Tx, c *models.Customer) error {
	return tx.QueryRow(ctx,
		`INSERT INTO customers(cname, brand, domain, contact_name, contact_position, qq,
		 wechat, email, phone, address, remark, pool, u_id)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, 0))
		 RETURNING id, is_active, create_time, update_time`,
		c.Name, c.Brand, c.Domain, c.ContactName, c.ContactPosition, c.QQ,
		c.Wechat, c.Email, c.Phone, c.Address, c.Remark, c.Schema, c.OwnerID,
	).Scan(&c.ID, &c.IsActive, &c.CreateTime, &c.UpdateTime)
}

// CreateTx inserts the lead and its creation journal in one transaction.
func (r *CustomerRepository) CreateTx(ctx context.Context, c *models.Customer, journal *models.CustomerJournal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertCustomer(ctx, tx, c); err != nil {
		return err
	}
	journal.CustomerID = c.ID
	if err := insertJournal(ctx, tx, journal); err != nil {
		return err
	}
	c.Journal = journal.Content

	return tx.Commit(ctx)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	customer, err := scanCustomer(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1 AND is_active`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("customer %d not found", id)
	}
	return customer, err
}

// List pages through active leads. pool filters by sea ("public"/"private");
// ownerID restricts private listings; keyword searches name and brand.
func (r *CustomerRepository) List(ctx context.Context, pool string, ownerID int, keyword string, limit, offset int) ([]*models.Customer, int, error) {
	conds := []string{"is_active"}
	var args []interface{}
	if pool != "" {
		args = append(args, pool)
		conds = append(conds, fmt.Sprintf("pool=$%d", len(args)))
	}
	if ownerID > 0 {
		args = append(args, ownerID)
		conds = append(conds, fmt.Sprintf("u_id=$%d", len(args)))
	}
	if keyword != "" {
		args = append(args, keyword)
		conds = append(conds, fmt.Sprintf("(cname ILIKE '%%' || $%d || '%%' OR brand ILIKE '%%' || $%d || '%%')", len(args), len(args)))
	}
	where := "WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.DB.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY update_time DESC LIMIT $%d OFFSET $%d`,
			customerColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]*models.Customer, 0, limit)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, customer)
	}
	return customers, total, rows.Err()
}

// UpdateTx writes the field edit and its audit journal in one transaction.
func (r *CustomerRepository) UpdateTx(ctx context.Context, c *models.Customer, journal *models.CustomerJournal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE customers SET cname=$1, brand=$2, domain=$3, contact_name=$4,
		 contact_position=$5, qq=$6, wechat=$7, email=$8, phone=$9, address=$10,
		 remark=$11, update_time=NOW()
		 WHERE id=$12`,
		c.Name, c.Brand, c.Domain, c.ContactName, c.ContactPosition, c.QQ,
		c.Wechat, c.Email, c.Phone, c.Address, c.Remark, c.ID)
	if err != nil {
		return err
	}

	if err := insertJournal(ctx, tx, journal); err != nil {
		return err
	}
	c.Journal = journal.Content

	return tx.Commit(ctx)
}

// MoveTx reassigns the lead's pool and owner, writing the audit journal in
// the same transaction.
func (r *CustomerRepository) MoveTx(ctx context.Context, customerID int, pool string, ownerID int, journal *models.CustomerJournal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE customers SET pool=$1, u_id=NULLIF($2, 0), update_time=NOW() WHERE id=$3 AND is_active`,
		pool, ownerID, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer %d not found", customerID)
	}

	if err := insertJournal(ctx, tx, journal); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteTx soft-deletes the lead, deactivates its journals and appends the
// deletion audit entry, all atomically.
func (r *CustomerRepository) DeleteTx(ctx context.Context, customerID int, journal *models.CustomerJournal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE customers SET is_active=FALSE, update_time=NOW() WHERE id=$1 AND is_active`,
		customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer %d not found", customerID)
	}

	_, err = tx.Exec(ctx,
		`UPDATE customer_journals SET is_active=FALSE, update_time=NOW() WHERE customer_id=$1`,
		customerID)
	if err != nil {
		return err
	}

	if err := insertJournal(ctx, tx, journal); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateBatchTx inserts many leads, each with its creation journal, in one
// transaction. journals runs parallel to customers.
func (r *CustomerRepository) CreateBatchTx(ctx context.Context, customers []*models.Customer, journals []*models.CustomerJournal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, c := range customers {
		if err := insertCustomer(ctx, tx, c); err != nil {
			return err
		}
		journals[i].CustomerID = c.ID
		if err := insertJournal(ctx, tx, journals[i]); err != nil {
			return err
		}
		c.Journal = journals[i].Content
	}

	return tx.Commit(ctx)
}
