package services

import (
	"context"

	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/repositories"
)

type ExpenseService struct {
	expenseRepo *repositories.ExpenseRepository
}

func NewExpenseService(expenseRepo *repositories.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// List pages redemption records. Members are pinned to their own.
func (s *ExpenseService) List(ctx context.Context, viewer *models.User, userID, orderID int, status string, p pagination.Params) (pagination.Page, error) {
	if !viewer.IsStaff() {
		userID = viewer.ID
	}
	expenses, total, err := s.expenseRepo.List(ctx, userID, orderID, status, p.Size, p.Offset())
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(total, p, expenses), nil
}

func (s *ExpenseService) Get(ctx context.Context, id int) (*models.Expense, error) {
	return s.expenseRepo.Get(ctx, id)
}

// Review applies a verdict to a redemption. The session delta follows the
// transition table, so re-reviewing to the same verdict changes nothing and
// flipping a verdict moves exactly one session.
func (s *ExpenseService) Review(ctx context.Context, reviewer *models.User, req *models.ExpenseReviewRequest) (*models.Expense, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	prior := expense.Status
	delta, err := models.ReviewDelta(prior, req.Status)
	if err != nil {
		return nil, err
	}

	expense.Status = req.Status
	expense.Reason = req.Reason
	expense.ReviewerID = reviewer.ID
	if err := s.expenseRepo.ReviewTx(ctx, expense, prior, delta); err != nil {
		return nil, err
	}
	return expense, nil
}
