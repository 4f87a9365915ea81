package models

import (
	"time"

	"fitness-backend/internal/apperrors"
)

// Customer lead pools.
const (
	SchemaPublic  = "public"  // the shared "sea", any staff may claim
	SchemaPrivate = "private" // owned by one staff member
)

// Customer is a CRM lead. A private lead belongs to its owner; everyone else
// sees a masked view.
type Customer struct {
	ID              int       `json:"id"`
	Name            string    `json:"cname"`
	Brand           string    `json:"brand"`
	Domain          string    `json:"domain"`
	ContactName     string    `json:"contact_name"`
	ContactPosition string    `json:"contact_position"`
	QQ              string    `json:"qq"`
	Wechat          string    `json:"wechat"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	Remark          string    `json:"remark"`
	Journal         string    `json:"journal"`
	Schema          string    `json:"schema"`
	OwnerID         int       `json:"u_id"`
	IsActive        bool      `json:"is_active"`
	CreateTime      time.Time `json:"create_time"`
	UpdateTime      time.Time `json:"update_time"`

	// AllotGap is derived per request: elapsed time since the lead was last
	// allotted, formatted as "{days}d{hours}h". Shown to the owner and to
	// admins; masked on someone else's private lead; empty for public leads.
	AllotGap string `json:"allot_gap,omitempty"`
}

func ValidSchema(s string) bool {
	return s == SchemaPublic || s == SchemaPrivate
}

// maskedValue hides a contact field while hinting that it exists.
const maskedValue = "***"

// Mask blanks the contact fields of a private lead for viewers other than
// its owner. Fields already empty stay empty so the client can tell "hidden"
// from "never filled in". The latest-journal snapshot is cleared outright so
// the client cannot open journal history.
func (c *Customer) Mask() {
	fields := []*string{
		&c.Brand, &c.Domain, &c.ContactName, &c.ContactPosition,
		&c.QQ, &c.Wechat, &c.Email, &c.Phone,
	}
	for _, f := range fields {
		if *f != "" {
			*f = maskedValue
		}
	}
	c.Journal = ""
}

// VisibleTo reports whether viewer sees the full lead: public leads, the
// owner's own leads, and everything for admins.
func (c *Customer) VisibleTo(viewer *User) bool {
	if c.Schema == SchemaPublic {
		return true
	}
	if c.OwnerID == viewer.ID {
		return true
	}
	return HasRole(viewer.StaffRoles, RoleAdmin)
}

type CustomerCreateRequest struct {
	Name            string `json:"cname"`
	Brand           string `json:"brand"`
	Domain          string `json:"domain"`
	ContactName     string `json:"contact_name"`
	ContactPosition string `json:"contact_position"`
	QQ              string `json:"qq"`
	Wechat          string `json:"wechat"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Remark          string `json:"remark"`
}

func (r *CustomerCreateRequest) Validate() error {
	if r.Name == "" {
		return apperrors.Invalid("cname is required")
	}
	return nil
}

// FilledFields names the fields the lead was created with, for the create
// journal entry.
func (r *CustomerCreateRequest) FilledFields() []string {
	fields := []string{"cname"}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"brand", r.Brand}, {"domain", r.Domain},
		{"contact_name", r.ContactName}, {"contact_position", r.ContactPosition},
		{"qq", r.QQ}, {"wechat", r.Wechat}, {"email", r.Email},
		{"phone", r.Phone}, {"address", r.Address}, {"remark", r.Remark},
	} {
		if f.value != "" {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// CustomerUpdateRequest is a partial edit of a lead's descriptive fields.
// Pool moves go through the dedicated allot/back/del operations instead.
type CustomerUpdateRequest struct {
	ID              int     `json:"id"`
	Name            *string `json:"cname,omitempty"`
	Brand           *string `json:"brand,omitempty"`
	Domain          *string `json:"domain,omitempty"`
	ContactName     *string `json:"contact_name,omitempty"`
	ContactPosition *string `json:"contact_position,omitempty"`
	QQ              *string `json:"qq,omitempty"`
	Wechat          *string `json:"wechat,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	Remark          *string `json:"remark,omitempty"`
}

func (r *CustomerUpdateRequest) Empty() bool {
	return r.Name == nil && r.Brand == nil && r.Domain == nil &&
		r.ContactName == nil && r.ContactPosition == nil && r.QQ == nil &&
		r.Wechat == nil && r.Email == nil && r.Phone == nil &&
		r.Address == nil && r.Remark == nil
}

// Apply merges the patch and returns the list of changed field names for the
// journal entry.
func (r *CustomerUpdateRequest) Apply(c *Customer) []string {
	var changed []string
	set := func(name string, dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = append(changed, name)
		}
	}
	set("cname", &c.Name, r.Name)
	set("brand", &c.Brand, r.Brand)
	set("domain", &c.Domain, r.Domain)
	set("contact_name", &c.ContactName, r.ContactName)
	set("contact_position", &c.ContactPosition, r.ContactPosition)
	set("qq", &c.QQ, r.QQ)
	set("wechat", &c.Wechat, r.Wechat)
	set("email", &c.Email, r.Email)
	set("phone", &c.Phone, r.Phone)
	set("address", &c.Address, r.Address)
	set("remark", &c.Remark, r.Remark)
	return changed
}

// Sea operation payloads. Each accepts one or many lead ids; the operation
// is applied per lead.

func validateCustomerIDs(ids []int) error {
	if len(ids) == 0 {
		return apperrors.Invalid("customer_ids is required")
	}
	for _, id := range ids {
		if id <= 0 {
			return apperrors.Invalid("invalid customer id %d", id)
		}
	}
	return nil
}

type CustomerAllotRequest struct {
	CustomerIDs []int `json:"customer_ids"`
	OwnerID     int   `json:"u_id"`
}

func (r *CustomerAllotRequest) Validate() error {
	if err := validateCustomerIDs(r.CustomerIDs); err != nil {
		return err
	}
	if r.OwnerID <= 0 {
		return apperrors.Invalid("u_id is required")
	}
	return nil
}

type CustomerBackRequest struct {
	CustomerIDs []int  `json:"customer_ids"`
	Reason      string `json:"reason"`
}

func (r *CustomerBackRequest) Validate() error {
	if err := validateCustomerIDs(r.CustomerIDs); err != nil {
		return err
	}
	if r.Reason == "" {
		return apperrors.Invalid("returning a lead needs a reason")
	}
	return nil
}

type CustomerDelRequest struct {
	CustomerIDs []int  `json:"customer_ids"`
	Reason      string `json:"reason"`
}

func (r *CustomerDelRequest) Validate() error {
	if err := validateCustomerIDs(r.CustomerIDs); err != nil {
		return err
	}
	if r.Reason == "" {
		return apperrors.Invalid("deleting a lead needs a reason")
	}
	return nil
}
