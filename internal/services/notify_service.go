package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitness-backend/internal/metrics"
	"fitness-backend/internal/models"
	"fitness-backend/internal/notify"
	"fitness-backend/internal/repositories"
	"fitness-backend/internal/timeutil"
)

// expiryHorizonDays is how far ahead the sweep looks for by-day passes.
const expiryHorizonDays = 3

type NotifyService struct {
	orderRepo *repositories.OrderRepository
	userRepo  *repositories.UserRepository
	sender    *notify.Sender
	batchSize int
	now       func() time.Time
}

func NewNotifyService(orderRepo *repositories.OrderRepository, userRepo *repositories.UserRepository, sender *notify.Sender, batchSize int) *NotifyService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &NotifyService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		sender:    sender,
		batchSize: batchSize,
		now:       timeutil.Now,
	}
}

// reminderText describes why the order needs attention.
func reminderText(o *models.Order) string {
	if o.BillType == models.BillTypeDay {
		return fmt.Sprintf("%s expires on %s", o.CourseName, timeutil.DateString(o.ExpireTime))
	}
	return fmt.Sprintf("%s has %d session(s) left", o.CourseName, o.Remaining())
}

// MorningSweep pushes the daily reminder for passes about to run out: by-day
// orders expiring within three days and by-count orders down to their last
// two sessions. One push per member covers all of their due orders, worded
// after the earliest one. A successful push marks those orders notified and
// spends one quota; a platform rejection zeroes the member's quota so we
// stop pushing to someone who revoked consent.
func (s *NotifyService) MorningSweep(ctx context.Context) error {
	horizon := s.now().AddDate(0, 0, expiryHorizonDays)
	candidates, err := s.orderRepo.ListNotifyCandidates(ctx, horizon, s.batchSize)
	if err != nil {
		return err
	}

	// Candidates arrive ordered by member, earliest order first.
	byMember := make(map[int][]*repositories.NotifyCandidate)
	var memberOrder []int
	for _, c := range candidates {
		if _, seen := byMember[c.Order.UserID]; !seen {
			memberOrder = append(memberOrder, c.Order.UserID)
		}
		byMember[c.Order.UserID] = append(byMember[c.Order.UserID], c)
	}

	today := timeutil.DateString(s.now())
	sent, failed := 0, 0
	for _, userID := range memberOrder {
		group := byMember[userID]
		earliest := group[0]
		msg := notify.Message{
			OpenID: earliest.OpenID,
			Data: map[string]string{
				"date":  today,
				"thing": reminderText(&earliest.Order),
			},
		}

		err := s.sender.Send(ctx, msg)
		switch {
		case err == nil:
			sent++
			metrics.NotifySendsTotal.WithLabelValues("ok").Inc()
			ids := make([]int, 0, len(group))
			for _, c := range group {
				ids = append(ids, c.Order.ID)
			}
			if mErr := s.orderRepo.MarkNotified(ctx, ids); mErr != nil {
				log.Printf("[Notify] mark notified for user %d failed: %v", userID, mErr)
			}
			if qErr := s.userRepo.AddSubscribeQuota(ctx, userID, -1); qErr != nil {
				log.Printf("[Notify] quota decrement for user %d failed: %v", userID, qErr)
			}
		default:
			if _, rejected := err.(*notify.RejectedError); rejected {
				metrics.NotifySendsTotal.WithLabelValues("rejected").Inc()
				if qErr := s.userRepo.AddSubscribeQuota(ctx, userID, -earliest.Quota); qErr != nil {
					log.Printf("[Notify] quota reset for user %d failed: %v", userID, qErr)
				}
			} else {
				metrics.NotifySendsTotal.WithLabelValues("error").Inc()
			}
			failed++
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	log.Printf("[Notify] morning sweep: %d sent, %d failed", sent, failed)
	return nil
}
