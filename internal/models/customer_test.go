package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleLead() *Customer {
	return &Customer{
		ID:          1,
		Name:        "Acme Gym Corp",
		Brand:       "Acme",
		Domain:      "acme.example",
		ContactName: "Zhang Wei",
		QQ:          "12345",
		Wechat:      "acme_wx",
		Email:       "hi@acme.example",
		Phone:       "13800000000",
		Address:     "1 Fitness Rd",
		Journal:     "called, interested",
		Schema:      SchemaPrivate,
		OwnerID:     7,
	}
}

func TestMaskHidesContactFields(t *testing.T) {
	lead := sampleLead()
	lead.Mask()

	require.Equal(t, "***", lead.Brand)
	require.Equal(t, "***", lead.Domain)
	require.Equal(t, "***", lead.ContactName)
	require.Equal(t, "***", lead.QQ)
	require.Equal(t, "***", lead.Wechat)
	require.Equal(t, "***", lead.Email)
	require.Equal(t, "***", lead.Phone)

	// Empty fields stay empty so "hidden" and "never filled" stay distinct
	require.Equal(t, "", lead.ContactPosition)

	// The latest-journal snapshot is cleared so history stays closed
	require.Equal(t, "", lead.Journal)

	// Non-contact fields survive
	require.Equal(t, "Acme Gym Corp", lead.Name)
	require.Equal(t, "1 Fitness Rd", lead.Address)
}

func TestVisibleTo(t *testing.T) {
	lead := sampleLead()

	owner := &User{ID: 7, StaffRoles: []Role{RoleCoach}}
	other := &User{ID: 8, StaffRoles: []Role{RoleMaster}}
	admin := &User{ID: 9, StaffRoles: []Role{RoleAdmin}}

	require.True(t, lead.VisibleTo(owner))
	require.False(t, lead.VisibleTo(other))
	require.True(t, lead.VisibleTo(admin))

	lead.Schema = SchemaPublic
	require.True(t, lead.VisibleTo(other))
}

func TestCustomerUpdateTracksChangedFields(t *testing.T) {
	lead := sampleLead()

	brand := "Acme Plus"
	same := "Acme Gym Corp"
	phone := "13900000000"
	req := &CustomerUpdateRequest{Brand: &brand, Name: &same, Phone: &phone}

	changed := req.Apply(lead)
	require.ElementsMatch(t, []string{"brand", "phone"}, changed)
	require.Equal(t, "Acme Plus", lead.Brand)
	require.Equal(t, "13900000000", lead.Phone)
}

func TestSeaRequestValidation(t *testing.T) {
	require.Error(t, (&CustomerAllotRequest{OwnerID: 2}).Validate())
	require.Error(t, (&CustomerAllotRequest{CustomerIDs: []int{1}}).Validate())
	require.Error(t, (&CustomerAllotRequest{CustomerIDs: []int{1, 0}, OwnerID: 2}).Validate())
	require.NoError(t, (&CustomerAllotRequest{CustomerIDs: []int{1, 2}, OwnerID: 2}).Validate())

	require.Error(t, (&CustomerBackRequest{CustomerIDs: []int{1}}).Validate())
	require.NoError(t, (&CustomerBackRequest{CustomerIDs: []int{1}, Reason: "no response"}).Validate())

	require.Error(t, (&CustomerDelRequest{CustomerIDs: []int{1}}).Validate())
	require.NoError(t, (&CustomerDelRequest{CustomerIDs: []int{1}, Reason: "duplicate"}).Validate())
}

func TestAllotJournalDetection(t *testing.T) {
	allot := &CustomerJournal{Kind: JournalKindSystem, Content: AllotJournalText("", "Coach Li")}
	require.True(t, IsAllotJournal(allot))

	reassigned := &CustomerJournal{Kind: JournalKindSystem, Content: AllotJournalText("Coach Li", "Coach Wang")}
	require.True(t, IsAllotJournal(reassigned))

	note := &CustomerJournal{Kind: JournalKindNote, Content: "called, interested"}
	require.False(t, IsAllotJournal(note))

	back := &CustomerJournal{Kind: JournalKindSystem, Content: BackJournalText("Coach Li", "cold lead")}
	require.False(t, IsAllotJournal(back))
}

func TestJournalTexts(t *testing.T) {
	require.Equal(t, "allot to Coach Wang, was Coach Li", AllotJournalText("Coach Li", "Coach Wang"))
	require.Equal(t, "allot to Coach Wang", AllotJournalText("", "Coach Wang"))
	require.Equal(t, "back to public sea from Coach Li: cold lead", BackJournalText("Coach Li", "cold lead"))

	// A company rename documents the old and the new name
	require.Equal(t, `edited fields: cname, phone; cname "Acme" to "Acme Plus"`,
		EditJournalText([]string{"cname", "phone"}, "Acme", "Acme Plus"))
	require.Equal(t, "edited fields: phone", EditJournalText([]string{"phone"}, "Acme", "Acme"))
}

func TestCreateRequestFilledFields(t *testing.T) {
	req := &CustomerCreateRequest{Name: "Acme Gym Corp", Phone: "13800000000", Wechat: "acme_wx"}
	require.Equal(t, []string{"cname", "wechat", "phone"}, req.FilledFields())
}
