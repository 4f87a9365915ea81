package models

import (
	"fmt"
	"strings"
	"time"
)

// Journal entry kinds on a customer.
const (
	JournalKindNote   = "note"   // free-form follow-up note by the owner
	JournalKindSystem = "system" // generated audit trail: allot/back/del/edit
)

// CustomerJournal is the per-lead activity log. System entries are written by
// the service on every pool move and field edit; note entries are authored by
// staff.
type CustomerJournal struct {
	ID         int       `json:"id"`
	CustomerID int       `json:"customer_id"`
	AuthorID   int       `json:"u_id"`
	Kind       string    `json:"kind"`
	Content    string    `json:"content"`
	IsActive   bool      `json:"is_active"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// Audit text builders. The allot entry doubles as the anchor the allot_gap
// calculation scans for, so its prefix must stay stable.

const allotPrefix = "allot to "

// AllotJournalText records a reassignment, naming both the old and the new
// owner. A claim straight from the public sea has no previous owner.
func AllotJournalText(prevOwner, newOwner string) string {
	if prevOwner == "" {
		return allotPrefix + newOwner
	}
	return fmt.Sprintf("%s%s, was %s", allotPrefix, newOwner, prevOwner)
}

// IsAllotJournal reports whether a system entry records an allotment.
func IsAllotJournal(j *CustomerJournal) bool {
	return j.Kind == JournalKindSystem && strings.HasPrefix(j.Content, allotPrefix)
}

// BackJournalText names the owner who gave the lead up along with the reason.
func BackJournalText(prevOwner, reason string) string {
	return fmt.Sprintf("back to public sea from %s: %s", prevOwner, reason)
}

func DelJournalText(reason string) string {
	return fmt.Sprintf("deleted: %s", reason)
}

// CreateJournalText records which fields the lead was created with.
func CreateJournalText(fields []string) string {
	return "created with fields: " + strings.Join(fields, ", ")
}

// EditJournalText lists the edited fields; a company rename additionally
// documents the old and new name.
func EditJournalText(changed []string, oldName, newName string) string {
	text := "edited fields: " + strings.Join(changed, ", ")
	if oldName != newName {
		text += fmt.Sprintf("; cname %q to %q", oldName, newName)
	}
	return text
}

type JournalCreateRequest struct {
	CustomerID int    `json:"customer_id"`
	Content    string `json:"content"`
}

type JournalUpdateRequest struct {
	ID       int     `json:"id"`
	Content  *string `json:"content,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *JournalUpdateRequest) Empty() bool {
	return r.Content == nil && r.IsActive == nil
}
