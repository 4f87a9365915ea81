package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
)

const courseColumns = `id, name, intro, thumbnail, description, desc_images, bill_type,
	bill_desc, limit_days, limit_counts, create_time, update_time`

type CourseRepository struct {
	DB *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Name, &c.Intro, &c.Thumbnail, &c.Description, &c.DescImages,
		&c.BillType, &c.BillDesc, &c.LimitDays, &c.LimitCounts, &c.CreateTime, &c.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO courses(name, intro, thumbnail, description, desc_images, bill_type,
		 bill_desc, limit_days, limit_counts)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, create_time, update_time`,
		c.Name, c.Intro, c.Thumbnail, c.Description, c.DescImages, c.BillType,
		c.BillDesc, c.LimitDays, c.LimitCounts,
	).Scan(&c.ID, &c.CreateTime, &c.UpdateTime)
}

func (r *CourseRepository) Get(ctx context.Context, id int) (*models.Course, error) {
	course, err := scanCourse(r.DB.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("course %d not found", id)
	}
	return course, err
}

// List pages courses, optionally filtered by a name substring.
func (r *CourseRepository) List(ctx context.Context, keyword string, limit, offset int) ([]*models.Course, int, error) {
	where := `WHERE $1 = '' OR name ILIKE '%' || $1 || '%'`

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM courses `+where, keyword).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+courseColumns+` FROM courses `+where+` ORDER BY id DESC LIMIT $2 OFFSET $3`,
		keyword, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0, limit)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	return courses, total, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE courses SET name=$1, intro=$2, thumbnail=$3, description=$4, desc_images=$5,
		 bill_type=$6, bill_desc=$7, limit_days=$8, limit_counts=$9, update_time=NOW()
		 WHERE id=$10`,
		c.Name, c.Intro, c.Thumbnail, c.Description, c.DescImages,
		c.BillType, c.BillDesc, c.LimitDays, c.LimitCounts, c.ID)
	return err
}

func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("course %d not found", id)
	}
	return nil
}

// HasOrders reports whether any order references the course. Courses with
// sold passes must not be deleted.
func (r *CourseRepository) HasOrders(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE course_id=$1)`, id).Scan(&exists)
	return exists, err
}
