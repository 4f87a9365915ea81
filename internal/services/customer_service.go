package services

import (
	"context"
	"time"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/repositories"
	"fitness-backend/internal/timeutil"
)

type CustomerService struct {
	customerRepo *repositories.CustomerRepository
	journalRepo  *repositories.JournalRepository
	userRepo     *repositories.UserRepository
	now          func() time.Time
}

func NewCustomerService(customerRepo *repositories.CustomerRepository, journalRepo *repositories.JournalRepository, userRepo *repositories.UserRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		journalRepo:  journalRepo,
		userRepo:     userRepo,
		now:          timeutil.Now,
	}
}

func customerFromRequest(req *models.CustomerCreateRequest, ownerID int) *models.Customer {
	return &models.Customer{
		Name:            req.Name,
		Brand:           req.Brand,
		Domain:          req.Domain,
		ContactName:     req.ContactName,
		ContactPosition: req.ContactPosition,
		QQ:              req.QQ,
		Wechat:          req.Wechat,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Remark:          req.Remark,
		Schema:          models.SchemaPrivate,
		OwnerID:         ownerID,
	}
}

func createJournal(req *models.CustomerCreateRequest, authorID int) *models.CustomerJournal {
	return &models.CustomerJournal{
		AuthorID: authorID,
		Kind:     models.JournalKindSystem,
		Content:  models.CreateJournalText(req.FilledFields()),
	}
}

// Create registers a new lead as the caller's own, with the creation journal
// written in the same transaction.
func (s *CustomerService) Create(ctx context.Context, caller *models.User, req *models.CustomerCreateRequest) (*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	customer := customerFromRequest(req, caller.ID)
	if err := s.customerRepo.CreateTx(ctx, customer, createJournal(req, caller.ID)); err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateBatch imports many leads at once, each private to the caller and
// journaled like a single create.
func (s *CustomerService) CreateBatch(ctx context.Context, caller *models.User, reqs []*models.CustomerCreateRequest) ([]*models.Customer, error) {
	if len(reqs) == 0 {
		return nil, apperrors.Invalid("empty batch")
	}
	customers := make([]*models.Customer, 0, len(reqs))
	journals := make([]*models.CustomerJournal, 0, len(reqs))
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		customers = append(customers, customerFromRequest(req, caller.ID))
		journals = append(journals, createJournal(req, caller.ID))
	}
	if err := s.customerRepo.CreateBatchTx(ctx, customers, journals); err != nil {
		return nil, err
	}
	return customers, nil
}

// Get returns a lead, masked for viewers who may not see its contacts.
func (s *CustomerService) Get(ctx context.Context, viewer *models.User, id int) (*models.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, viewer, customer)
}

// present applies the read-path visibility rules. The allocation age of a
// private lead is shown to the owner and to admins; on someone else's lead
// the contact fields and the age are masked.
func (s *CustomerService) present(ctx context.Context, viewer *models.User, customer *models.Customer) (*models.Customer, error) {
	if customer.Schema != models.SchemaPrivate {
		return customer, nil
	}
	if !customer.VisibleTo(viewer) {
		customer.Mask()
		customer.AllotGap = "*"
		return customer, nil
	}
	allotted, err := s.journalRepo.LatestAllotTime(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if !allotted.IsZero() {
		customer.AllotGap = timeutil.GapDayHour(allotted, s.now())
	}
	return customer, nil
}

// List pages leads in a sea. Private listings only expose the viewer's own
// leads unless the viewer is an admin; foreign private leads in mixed
// results come back masked.
func (s *CustomerService) List(ctx context.Context, viewer *models.User, pool string, ownerID int, keyword string, p pagination.Params) (pagination.Page, error) {
	if pool != "" && !models.ValidSchema(pool) {
		return pagination.Page{}, apperrors.Invalid("unknown pool %q", pool)
	}
	if pool == models.SchemaPrivate && ownerID == 0 && !models.HasRole(viewer.StaffRoles, models.RoleAdmin) {
		ownerID = viewer.ID
	}

	customers, total, err := s.customerRepo.List(ctx, pool, ownerID, keyword, p.Size, p.Offset())
	if err != nil {
		return pagination.Page{}, err
	}
	for _, c := range customers {
		if _, err := s.present(ctx, viewer, c); err != nil {
			return pagination.Page{}, err
		}
	}
	return pagination.NewPage(total, p, customers), nil
}

// Update edits lead fields. Only the owner (or an admin) may edit a private
// lead; changes are journaled.
func (s *CustomerService) Update(ctx context.Context, caller *models.User, req *models.CustomerUpdateRequest) (*models.Customer, error) {
	if req.Empty() {
		return nil, apperrors.Invalid("nothing to update")
	}
	customer, err := s.customerRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if customer.Schema == models.SchemaPrivate && customer.OwnerID != caller.ID &&
		!models.HasRole(caller.StaffRoles, models.RoleAdmin) {
		return nil, apperrors.Forbidden("not your lead")
	}

	oldName := customer.Name
	changed := req.Apply(customer)
	if len(changed) == 0 {
		return customer, nil
	}
	journal := &models.CustomerJournal{
		CustomerID: customer.ID,
		AuthorID:   caller.ID,
		Kind:       models.JournalKindSystem,
		Content:    models.EditJournalText(changed, oldName, customer.Name),
	}
	if err := s.customerRepo.UpdateTx(ctx, customer, journal); err != nil {
		return nil, err
	}
	return customer, nil
}

// Allot claims leads from the public sea for a staff member. Admin only.
// Re-allotting a lead to its current owner is a no-op. The first failing
// lead aborts the batch; earlier moves stand.
func (s *CustomerService) Allot(ctx context.Context, caller *models.User, req *models.CustomerAllotRequest) ([]*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	owner, err := s.userRepo.Get(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsStaff() {
		return nil, apperrors.Invalid("user %d is not staff", owner.ID)
	}

	customers := make([]*models.Customer, 0, len(req.CustomerIDs))
	for _, id := range req.CustomerIDs {
		customer, err := s.allotOne(ctx, caller, owner, id)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

// ownerNickname resolves a lead owner's display name, or "" for a public
// lead.
func (s *CustomerService) ownerNickname(ctx context.Context, ownerID int) (string, error) {
	if ownerID == 0 {
		return "", nil
	}
	owner, err := s.userRepo.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return owner.Nickname, nil
}

func (s *CustomerService) allotOne(ctx context.Context, caller, owner *models.User, customerID int) (*models.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Schema == models.SchemaPrivate && customer.OwnerID == owner.ID {
		return customer, nil
	}

	prevOwner, err := s.ownerNickname(ctx, customer.OwnerID)
	if err != nil {
		return nil, err
	}
	journal := &models.CustomerJournal{
		CustomerID: customer.ID,
		AuthorID:   caller.ID,
		Kind:       models.JournalKindSystem,
		Content:    models.AllotJournalText(prevOwner, owner.Nickname),
	}
	if err := s.customerRepo.MoveTx(ctx, customer.ID, models.SchemaPrivate, owner.ID, journal); err != nil {
		return nil, err
	}
	customer.Schema = models.SchemaPrivate
	customer.OwnerID = owner.ID
	return customer, nil
}

// Back returns leads to the public sea. Allowed for the owner or an admin;
// a reason is required and journaled per lead.
func (s *CustomerService) Back(ctx context.Context, caller *models.User, req *models.CustomerBackRequest) ([]*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	customers := make([]*models.Customer, 0, len(req.CustomerIDs))
	for _, id := range req.CustomerIDs {
		customer, err := s.backOne(ctx, caller, id, req.Reason)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (s *CustomerService) backOne(ctx context.Context, caller *models.User, customerID int, reason string) (*models.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Schema != models.SchemaPrivate {
		return nil, apperrors.Conflict("customer %d is already public", customer.ID)
	}
	if customer.OwnerID != caller.ID && !models.HasRole(caller.StaffRoles, models.RoleAdmin) {
		return nil, apperrors.Forbidden("not your lead")
	}

	prevOwner, err := s.ownerNickname(ctx, customer.OwnerID)
	if err != nil {
		return nil, err
	}
	journal := &models.CustomerJournal{
		CustomerID: customer.ID,
		AuthorID:   caller.ID,
		Kind:       models.JournalKindSystem,
		Content:    models.BackJournalText(prevOwner, reason),
	}
	if err := s.customerRepo.MoveTx(ctx, customer.ID, models.SchemaPublic, 0, journal); err != nil {
		return nil, err
	}
	customer.Schema = models.SchemaPublic
	customer.OwnerID = 0
	return customer, nil
}

// Del soft-deletes leads and their journals. Admin only; a reason is
// required and journaled per lead.
func (s *CustomerService) Del(ctx context.Context, caller *models.User, req *models.CustomerDelRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	for _, id := range req.CustomerIDs {
		journal := &models.CustomerJournal{
			CustomerID: id,
			AuthorID:   caller.ID,
			Kind:       models.JournalKindSystem,
			Content:    models.DelJournalText(req.Reason),
		}
		if err := s.customerRepo.DeleteTx(ctx, id, journal); err != nil {
			return err
		}
	}
	return nil
}

// Journals pages a lead's activity log. A foreign private lead answers with
// an empty page rather than an error, so callers cannot probe whose leads
// exist.
func (s *CustomerService) Journals(ctx context.Context, viewer *models.User, customerID int, p pagination.Params) (pagination.Page, error) {
	customer, err := s.customerRepo.Get(ctx, customerID)
	if err != nil {
		return pagination.Page{}, err
	}
	if !customer.VisibleTo(viewer) {
		return pagination.NewPage(0, p, []*models.CustomerJournal{}), nil
	}

	journals, total, err := s.journalRepo.ListByCustomer(ctx, customerID, p.Size, p.Offset())
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(total, p, journals), nil
}

// AddJournal appends a follow-up note; only the owner may write on a
// private lead.
func (s *CustomerService) AddJournal(ctx context.Context, caller *models.User, req *models.JournalCreateRequest) (*models.CustomerJournal, error) {
	if req.Content == "" {
		return nil, apperrors.Invalid("content is required")
	}
	customer, err := s.customerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Schema == models.SchemaPrivate && customer.OwnerID != caller.ID &&
		!models.HasRole(caller.StaffRoles, models.RoleAdmin) {
		return nil, apperrors.Forbidden("not your lead")
	}

	journal := &models.CustomerJournal{
		CustomerID: customer.ID,
		AuthorID:   caller.ID,
		Kind:       models.JournalKindNote,
		Content:    req.Content,
	}
	if err := s.journalRepo.Create(ctx, journal); err != nil {
		return nil, err
	}
	return journal, nil
}

// UpdateJournal edits or retracts a note. Only its author (or an admin) may
// touch it; system entries are immutable.
func (s *CustomerService) UpdateJournal(ctx context.Context, caller *models.User, req *models.JournalUpdateRequest) (*models.CustomerJournal, error) {
	if req.Empty() {
		return nil, apperrors.Invalid("nothing to update")
	}
	journal, err := s.journalRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if journal.Kind == models.JournalKindSystem {
		return nil, apperrors.Conflict("system journal entries are immutable")
	}
	if journal.AuthorID != caller.ID && !models.HasRole(caller.StaffRoles, models.RoleAdmin) {
		return nil, apperrors.Forbidden("not your journal entry")
	}

	if req.Content != nil {
		journal.Content = *req.Content
	}
	if req.IsActive != nil {
		journal.IsActive = *req.IsActive
	}
	if err := s.journalRepo.Update(ctx, journal); err != nil {
		return nil, err
	}
	return journal, nil
}
