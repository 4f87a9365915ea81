package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/metrics"
	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/receipt"
	"fitness-backend/internal/repositories"
	"fitness-backend/internal/timeutil"
)

type OrderService struct {
	orderRepo   *repositories.OrderRepository
	courseRepo  *repositories.CourseRepository
	userRepo    *repositories.UserRepository
	expenseRepo *repositories.ExpenseRepository
	now         func() time.Time
}

func NewOrderService(orderRepo *repositories.OrderRepository, courseRepo *repositories.CourseRepository, userRepo *repositories.UserRepository, expenseRepo *repositories.ExpenseRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		courseRepo:  courseRepo,
		userRepo:    userRepo,
		expenseRepo: expenseRepo,
		now:         timeutil.Now,
	}
}

// newOrderNo builds a compact unique order number.
func newOrderNo() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// Create sells a pass to the buying member. Course billing fields and the
// member's name and phone are snapshotted onto the order so later edits to
// either never change what was bought. The route is member-gated; the buyer
// is always the caller.
func (s *OrderService) Create(ctx context.Context, actor *models.User, req *models.OrderCreateRequest) (*models.Order, error) {
	req.UserID = actor.ID
	if err := req.Validate(); err != nil {
		return nil, err
	}
	member, err := s.userRepo.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.Get(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:     newOrderNo(),
		UserID:      member.ID,
		UserName:    member.Nickname,
		Phone:       member.Phone,
		CourseID:    course.ID,
		CourseName:  course.Name,
		BillType:    course.BillType,
		BillDesc:    course.BillDesc,
		Amount:      req.Amount,
		Status:      models.OrderStatusActivated,
		LimitCounts: course.LimitCounts,
		ExpireTime:  timeutil.StartOfDay(s.now()).AddDate(0, 0, course.LimitDays+1),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns an order; members only see their own.
func (s *OrderService) Get(ctx context.Context, viewer *models.User, id int) (*models.Order, error) {
	order, err := s.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff() && order.UserID != viewer.ID {
		return nil, apperrors.Forbidden("not your order")
	}
	return order, nil
}

// List pages orders. Members are pinned to their own orders regardless of
// the requested filter.
func (s *OrderService) List(ctx context.Context, viewer *models.User, userID int, status string, p pagination.Params) (pagination.Page, error) {
	if !viewer.IsStaff() {
		userID = viewer.ID
	}
	if status != "" && !models.ValidOrderStatus(status) {
		return pagination.Page{}, apperrors.Invalid("unknown order status %q", status)
	}
	orders, total, err := s.orderRepo.List(ctx, userID, status, p.Size, p.Offset())
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(total, p, orders), nil
}

func (s *OrderService) Update(ctx context.Context, req *models.OrderUpdateRequest) (*models.Order, error) {
	if req.Empty() {
		return nil, apperrors.Invalid("nothing to update")
	}
	order, err := s.orderRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Comment appends an attributed staff note to the order and to its member.
// Masters and admins may comment anywhere; a coach only on orders they have
// actually serviced.
func (s *OrderService) Comment(ctx context.Context, actor *models.User, orderID int, req *models.OrderCommentRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.HasRole(actor.StaffRoles, models.RoleMaster, models.RoleAdmin) {
		serviced, err := s.expenseRepo.HasByOperator(ctx, order.ID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !serviced {
			return nil, apperrors.Forbidden("not an order you have serviced")
		}
	}

	note := actor.Nickname + ": " + strings.TrimSpace(req.Content)
	order.Comments = append(order.Comments, note)
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	member, err := s.userRepo.Get(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	member.Comments = append(member.Comments, note)
	if err := s.userRepo.Update(ctx, member); err != nil {
		log.Printf("[Orders] member comment for user %d failed: %v", member.ID, err)
	}
	return order, nil
}

// Receipt renders the order's PDF receipt.
func (s *OrderService) Receipt(ctx context.Context, viewer *models.User, id int) ([]byte, error) {
	order, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	member, err := s.userRepo.Get(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	return receipt.Generate(order, member)
}

// ExpireSweep is the nightly job flipping overdue activated orders to
// expired. Refunded and already-expired orders are never touched.
func (s *OrderService) ExpireSweep(ctx context.Context) error {
	n, err := s.orderRepo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.OrdersExpiredTotal.Add(float64(n))
		log.Printf("[Orders] expired %d overdue order(s)", n)
	}
	return nil
}
