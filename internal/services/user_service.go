package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/repositories"
)

type UserService struct {
	userRepo    *repositories.UserRepository
	orderRepo   *repositories.OrderRepository
	expenseRepo *repositories.ExpenseRepository
}

func NewUserService(userRepo *repositories.UserRepository, orderRepo *repositories.OrderRepository, expenseRepo *repositories.ExpenseRepository) *UserService {
	return &UserService{userRepo: userRepo, orderRepo: orderRepo, expenseRepo: expenseRepo}
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.Get(ctx, id)
}

// List pages the user directory for staff. keyword matches nickname/phone;
// roles is a CSV of role ranks, or "none" for plain members.
func (s *UserService) List(ctx context.Context, keyword, roles string, p pagination.Params) (pagination.Page, error) {
	filter := repositories.UserFilter{Keyword: keyword}
	switch roles {
	case "":
	case "none":
		filter.NoRoles = true
	default:
		for _, part := range strings.Split(roles, ",") {
			rank, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return pagination.Page{}, apperrors.Invalid("bad roles filter %q", roles)
			}
			role := models.Role(rank)
			if !role.Valid() {
				return pagination.Page{}, apperrors.Invalid("unknown role %d", rank)
			}
			filter.Roles = append(filter.Roles, role)
		}
	}

	users, total, err := s.userRepo.List(ctx, filter, p.Size, p.Offset())
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(total, p, users), nil
}

// UpdateProfile applies a self-service profile edit.
func (s *UserService) UpdateProfile(ctx context.Context, caller *models.User, req *models.ProfileUpdateRequest) (*models.User, error) {
	if req.Empty() {
		return nil, apperrors.Invalid("nothing to update")
	}
	user, err := s.userRepo.Get(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update is the privileged directory edit. Role grants are rank-checked:
// nobody can grant at or above their own rank, or touch a peer.
func (s *UserService) Update(ctx context.Context, caller *models.User, targetID int, req *models.UserUpdateRequest) (*models.User, error) {
	if req.Empty() {
		return nil, apperrors.Invalid("nothing to update")
	}
	target, err := s.userRepo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.StaffRoles != nil {
		for _, role := range *req.StaffRoles {
			if !role.Valid() {
				return nil, apperrors.Invalid("unknown role %d", role)
			}
		}
		if !models.CanGrant(caller.StaffRoles, target.StaffRoles, *req.StaffRoles) {
			return nil, apperrors.Forbidden("cannot grant roles at or above your own rank")
		}
		target.StaffRoles = *req.StaffRoles
	}
	identityChanged := false
	if req.Nickname != nil && *req.Nickname != target.Nickname {
		target.Nickname = *req.Nickname
		identityChanged = true
	}
	if req.Phone != nil && *req.Phone != target.Phone {
		target.Phone = *req.Phone
		identityChanged = true
	}
	if req.Comment != nil && *req.Comment != "" {
		target.Comments = append(target.Comments, *req.Comment)
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	if identityChanged {
		s.cascadeIdentity(ctx, target)
	}
	return target, nil
}

// cascadeIdentity pushes a changed name or phone into the denormalized
// order and expense snapshots. Best effort: failures are logged, and until a
// retry the snapshots lag behind the directory.
func (s *UserService) cascadeIdentity(ctx context.Context, u *models.User) {
	if err := s.orderRepo.UpdateMemberIdentity(ctx, u.ID, u.Nickname, u.Phone); err != nil {
		log.Printf("[Users] order snapshot cascade for user %d failed: %v", u.ID, err)
	}
	if err := s.expenseRepo.UpdateMemberIdentity(ctx, u.ID, u.Nickname, u.Phone); err != nil {
		log.Printf("[Users] expense snapshot cascade for user %d failed: %v", u.ID, err)
	}
	if err := s.expenseRepo.UpdateOperatorName(ctx, u.ID, u.Nickname); err != nil {
		log.Printf("[Users] operator snapshot cascade for user %d failed: %v", u.ID, err)
	}
}

// AddSubscribeQuota records one more consented push for the caller. The
// mini-program reports each subscribe dialog acceptance.
func (s *UserService) AddSubscribeQuota(ctx context.Context, caller *models.User) error {
	return s.userRepo.AddSubscribeQuota(ctx, caller.ID, 1)
}
