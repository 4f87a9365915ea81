package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
)

const userColumns = `id, openid, phone, nickname, gender, avatar, staff_roles, comments,
	subscribe_quota, is_active, create_time, update_time`

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var roles []int
	err := row.Scan(&u.ID, &u.OpenID, &u.Phone, &u.Nickname, &u.Gender, &u.Avatar,
		&roles, &u.Comments, &u.SubscribeQuota, &u.IsActive, &u.CreateTime, &u.UpdateTime)
	if err != nil {
		return nil, err
	}
	u.StaffRoles = make([]models.Role, 0, len(roles))
	for _, r := range roles {
		u.StaffRoles = append(u.StaffRoles, models.Role(r))
	}
	return &u, nil
}

func rolesToInts(roles []models.Role) []int {
	out := make([]int, 0, len(roles))
	for _, r := range roles {
		out = append(out, int(r))
	}
	return out
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user %d not found", id)
	}
	return user, err
}

func (r *UserRepository) GetByOpenID(ctx context.Context, openid string) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE openid=$1`, openid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	return user, err
}

// ResolveByOpenID returns the user for an openid, creating a fresh member
// row on first contact. The upsert keeps concurrent first requests from
// racing on the unique openid.
func (r *UserRepository) ResolveByOpenID(ctx context.Context, openid string) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRow(ctx,
		`INSERT INTO users(openid) VALUES($1)
		 ON CONFLICT (openid) DO UPDATE SET update_time = users.update_time
		 RETURNING `+userColumns, openid))
	if err != nil {
		return nil, fmt.Errorf("resolve openid: %w", err)
	}
	return user, nil
}

// UserFilter narrows the directory listing. Keyword matches nickname or
// phone. Roles selects holders of any listed rank; NoRoles selects plain
// members instead.
type UserFilter struct {
	Keyword string
	Roles   []models.Role
	NoRoles bool
}

func (r *UserRepository) List(ctx context.Context, f UserFilter, limit, offset int) ([]*models.User, int, error) {
	where := `WHERE is_active AND ($1 = '' OR nickname ILIKE '%' || $1 || '%' OR phone LIKE '%' || $1 || '%')`
	args := []interface{}{f.Keyword}
	if f.NoRoles {
		where += ` AND cardinality(staff_roles) = 0`
	} else if len(f.Roles) > 0 {
		args = append(args, rolesToInts(f.Roles))
		where += fmt.Sprintf(` AND staff_roles && $%d::int[]`, len(args))
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.DB.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
			userColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*models.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET phone=$1, nickname=$2, gender=$3, avatar=$4, staff_roles=$5,
		 comments=$6, subscribe_quota=$7, is_active=$8, update_time=NOW()
		 WHERE id=$9`,
		u.Phone, u.Nickname, u.Gender, u.Avatar, rolesToInts(u.StaffRoles),
		u.Comments, u.SubscribeQuota, u.IsActive, u.ID)
	return err
}

// AddSubscribeQuota bumps how many pushes the user has consented to.
func (r *UserRepository) AddSubscribeQuota(ctx context.Context, id, delta int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET subscribe_quota = GREATEST(subscribe_quota + $1, 0), update_time=NOW()
		 WHERE id=$2`, delta, id)
	return err
}
