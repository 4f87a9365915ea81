package services

import (
	"context"
	"time"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/metrics"
	"fitness-backend/internal/models"
	"fitness-backend/internal/qrcode"
	"fitness-backend/internal/repositories"
	"fitness-backend/internal/timeutil"
)

type QRCodeService struct {
	orderRepo  *repositories.OrderRepository
	signinRepo *repositories.SigninRepository
	now        func() time.Time
}

func NewQRCodeService(orderRepo *repositories.OrderRepository, signinRepo *repositories.SigninRepository) *QRCodeService {
	return &QRCodeService{
		orderRepo:  orderRepo,
		signinRepo: signinRepo,
		now:        timeutil.Now,
	}
}

// IssueResult carries the rendered QR back to the client.
type IssueResult struct {
	Scene   string `json:"scene"`
	ID      int    `json:"id"`
	Image   string `json:"image"` // base64 PNG data URI
	Content string `json:"content"`
}

// Issue renders a QR for a scene. An expense QR encodes one of the caller's
// redeemable orders; a signin QR encodes the caller's user id.
func (s *QRCodeService) Issue(ctx context.Context, caller *models.User, scene string, id int) (*IssueResult, error) {
	switch scene {
	case models.SceneExpense:
		order, err := s.orderRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if order.UserID != caller.ID {
			return nil, apperrors.Forbidden("not your order")
		}
		if err := order.CanRedeem(s.now()); err != nil {
			return nil, err
		}
	case models.SceneSignin:
		id = caller.ID
	default:
		return nil, apperrors.Invalid("unknown scene %q", scene)
	}

	payload := qrcode.Payload{Scene: scene, ID: id}
	image, err := qrcode.DataURI(payload)
	if err != nil {
		return nil, err
	}
	return &IssueResult{
		Scene:   scene,
		ID:      id,
		Image:   image,
		Content: payload.String(),
	}, nil
}

// RedeemResult reports what a scan did.
type RedeemResult struct {
	Scene     string `json:"scene"`
	ExpenseID int    `json:"expense_id,omitempty"`
	OrderID   int    `json:"order_id,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Date      string `json:"date,omitempty"`
	Repeat    bool   `json:"repeat,omitempty"`
}

// Redeem consumes a scanned QR. Expense scans deduct one session and open a
// pending redemption record; signin scans record today's attendance
// idempotently.
func (s *QRCodeService) Redeem(ctx context.Context, operator *models.User, content string) (*RedeemResult, error) {
	payload, err := qrcode.ParsePayload(content)
	if err != nil {
		return nil, err
	}

	switch payload.Scene {
	case models.SceneExpense:
		result, err := s.redeemExpense(ctx, operator, payload.ID)
		outcome := "ok"
		if err != nil {
			outcome = "rejected"
		}
		metrics.RedemptionsTotal.WithLabelValues(models.SceneExpense, outcome).Inc()
		return result, err
	case models.SceneSignin:
		result, err := s.redeemSignin(ctx, operator, payload.ID)
		outcome := "ok"
		if err != nil {
			outcome = "rejected"
		}
		metrics.RedemptionsTotal.WithLabelValues(models.SceneSignin, outcome).Inc()
		return result, err
	}
	return nil, apperrors.Invalid("unknown scene %q", payload.Scene)
}

func (s *QRCodeService) redeemExpense(ctx context.Context, operator *models.User, orderID int) (*RedeemResult, error) {
	order, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Pre-check for a precise rejection message; the transactional update
	// re-checks under lock.
	if err := order.CanRedeem(s.now()); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		OrderID:      order.ID,
		OrderNo:      order.OrderNo,
		UserID:       order.UserID,
		UserName:     order.UserName,
		Phone:        order.Phone,
		OperatorID:   operator.ID,
		OperatorName: operator.Nickname,
		CourseID:     order.CourseID,
		CourseName:   order.CourseName,
		Status:       models.ExpenseStatusPending,
	}
	if err := s.orderRepo.RedeemTx(ctx, order.ID, expense, s.now()); err != nil {
		return nil, err
	}

	return &RedeemResult{
		Scene:     models.SceneExpense,
		ExpenseID: expense.ID,
		OrderID:   order.ID,
		Remaining: order.LimitCounts - order.UsedCounts - 1,
	}, nil
}

func (s *QRCodeService) redeemSignin(ctx context.Context, operator *models.User, userID int) (*RedeemResult, error) {
	signin := &models.Signin{
		UserID:  userID,
		CoachID: operator.ID,
		Date:    timeutil.DateString(s.now()),
	}
	created, err := s.signinRepo.Record(ctx, signin)
	if err != nil {
		return nil, err
	}
	return &RedeemResult{
		Scene:  models.SceneSignin,
		Date:   signin.Date,
		Repeat: !created,
	}, nil
}
