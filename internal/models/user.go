package models

import "time"

type User struct {
	ID             int       `json:"id"`
	OpenID         string    `json:"openid"`
	Phone          string    `json:"phone"`
	Nickname       string    `json:"nickname"`
	Gender         string    `json:"gender"` // "0" unknown, "1" male, "2" female
	Avatar         string    `json:"avatar"`
	StaffRoles     []Role    `json:"staff_roles"`
	Comments       []string  `json:"comments"`
	SubscribeQuota int       `json:"subscribe_quota"`
	IsActive       bool      `json:"is_active"`
	CreateTime     time.Time `json:"create_time"`
	UpdateTime     time.Time `json:"update_time"`
}

// IsStaff reports whether the user holds any staff role.
func (u *User) IsStaff() bool {
	return len(u.StaffRoles) > 0
}

// ProfileUpdateRequest is the self-service profile edit payload. Only these
// fields may be changed by the user themselves.
type ProfileUpdateRequest struct {
	Phone    *string `json:"phone,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Gender   *string `json:"gender,omitempty"`
}

func (r *ProfileUpdateRequest) Empty() bool {
	return r.Phone == nil && r.Nickname == nil && r.Avatar == nil && r.Gender == nil
}

// UserUpdateRequest is the privileged directory edit payload: role grants
// plus canonical nickname/phone corrections.
type UserUpdateRequest struct {
	StaffRoles *[]Role `json:"staff_roles,omitempty"`
	Nickname   *string `json:"nickname,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Comment    *string `json:"comment,omitempty"`
}

func (r *UserUpdateRequest) Empty() bool {
	return r.StaffRoles == nil && r.Nickname == nil && r.Phone == nil && r.Comment == nil
}
