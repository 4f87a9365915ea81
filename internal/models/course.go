package models

import (
	"fmt"
	"time"

	"fitness-backend/internal/apperrors"
)

// Billing kinds for a course.
const (
	BillTypeDay   = "day"   // time-bounded pass
	BillTypeCount = "count" // fixed-visit-count pass
)

type Course struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Intro       string    `json:"intro"`
	Thumbnail   string    `json:"thumbnail"`
	Description string    `json:"description"`
	DescImages  []string  `json:"desc_images"`
	BillType    string    `json:"bill_type"`
	BillDesc    string    `json:"bill_desc"`
	LimitDays   int       `json:"limit_days"`
	LimitCounts int       `json:"limit_counts"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

// DayBillDescription maps a validity-day count to its pass name. Only these
// four durations are sellable as by-day courses.
func DayBillDescription(limitDays int) (string, error) {
	switch limitDays {
	case 30:
		return "monthly", nil
	case 90:
		return "quarterly", nil
	case 180:
		return "half-year", nil
	case 365:
		return "annual", nil
	}
	return "", apperrors.Invalid("limit_days must be one of 30/90/180/365, got %d", limitDays)
}

type CourseCreateRequest struct {
	Name        string   `json:"name"`
	Intro       string   `json:"intro"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	DescImages  []string `json:"desc_images"`
	BillType    string   `json:"bill_type"`
	LimitDays   int      `json:"limit_days"`
	LimitCounts int      `json:"limit_counts"`
}

// Normalize validates the billing invariant and fills derived fields:
// a by-day course gets a latent visit count (3 per day), a by-count course
// gets a latent one-year validity, and both get a billing description.
func (r *CourseCreateRequest) Normalize() (*Course, error) {
	if r.Name == "" {
		return nil, apperrors.Invalid("name is required")
	}
	c := &Course{
		Name:        r.Name,
		Intro:       r.Intro,
		Thumbnail:   r.Thumbnail,
		Description: r.Description,
		DescImages:  r.DescImages,
		BillType:    r.BillType,
		LimitDays:   r.LimitDays,
		LimitCounts: r.LimitCounts,
	}
	switch r.BillType {
	case BillTypeDay:
		if r.LimitDays <= 0 {
			return nil, apperrors.Invalid("a by-day course needs a positive limit_days")
		}
		desc, err := DayBillDescription(r.LimitDays)
		if err != nil {
			return nil, err
		}
		c.BillDesc = desc
		if c.LimitCounts == 0 {
			c.LimitCounts = r.LimitDays * 3
		}
	case BillTypeCount:
		if r.LimitCounts <= 0 {
			return nil, apperrors.Invalid("a by-count course needs a positive limit_counts")
		}
		c.BillDesc = fmt.Sprintf("%d sessions", r.LimitCounts)
		if c.LimitDays == 0 {
			c.LimitDays = 365
		}
	default:
		return nil, apperrors.Invalid("bill_type must be %q or %q", BillTypeDay, BillTypeCount)
	}
	return c, nil
}

// CourseUpdateRequest is a partial edit; nil fields are left untouched.
type CourseUpdateRequest struct {
	ID          int       `json:"id"`
	Name        *string   `json:"name,omitempty"`
	Intro       *string   `json:"intro,omitempty"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	Description *string   `json:"description,omitempty"`
	DescImages  *[]string `json:"desc_images,omitempty"`
	BillType    *string   `json:"bill_type,omitempty"`
	LimitDays   *int      `json:"limit_days,omitempty"`
	LimitCounts *int      `json:"limit_counts,omitempty"`
}

// Apply merges the patch into course, revalidating the billing invariant
// whenever any billing field changes.
func (r *CourseUpdateRequest) Apply(course *Course) error {
	if r.Name != nil {
		course.Name = *r.Name
	}
	if r.Intro != nil {
		course.Intro = *r.Intro
	}
	if r.Thumbnail != nil {
		course.Thumbnail = *r.Thumbnail
	}
	if r.Description != nil {
		course.Description = *r.Description
	}
	if r.DescImages != nil {
		course.DescImages = *r.DescImages
	}
	billingChanged := r.BillType != nil || r.LimitDays != nil || r.LimitCounts != nil
	if r.BillType != nil {
		course.BillType = *r.BillType
	}
	if r.LimitDays != nil {
		course.LimitDays = *r.LimitDays
	}
	if r.LimitCounts != nil {
		course.LimitCounts = *r.LimitCounts
	}
	if !billingChanged {
		return nil
	}
	switch course.BillType {
	case BillTypeDay:
		if course.LimitDays <= 0 {
			return apperrors.Invalid("a by-day course needs a positive limit_days")
		}
		desc, err := DayBillDescription(course.LimitDays)
		if err != nil {
			return err
		}
		course.BillDesc = desc
	case BillTypeCount:
		if course.LimitCounts <= 0 {
			return apperrors.Invalid("a by-count course needs a positive limit_counts")
		}
		course.BillDesc = fmt.Sprintf("%d sessions", course.LimitCounts)
	default:
		return apperrors.Invalid("bill_type must be %q or %q", BillTypeDay, BillTypeCount)
	}
	return nil
}
