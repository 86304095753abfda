package lead

import (
	"context"
	"errors"
	"testing"

	"opscrm/internal/features/activity"
	"opscrm/internal/features/customer"
	"opscrm/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockLeadRepo struct {
	leads map[string]*Lead
}

func (m *mockLeadRepo) Create(ctx context.Context, lead *Lead) error { return nil }

func (m *mockLeadRepo) FindByID(ctx context.Context, id string) (*Lead, error) {
	if lead, ok := m.leads[id]; ok {
		return lead, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockLeadRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Lead, int64, error) {
	return nil, 0, nil
}

func (m *mockLeadRepo) Update(ctx context.Context, id string, lead *Lead) error { return nil }

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	if lead, ok := m.leads[id]; ok {
		lead.Status = status
	}
	return nil
}

func (m *mockLeadRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockLeadRepo) EnsureIndexes(ctx context.Context) error     { return nil }

// mockCustomerRepo enforces the lead back-reference uniqueness the real
// collection gets from its partial unique index.
type mockCustomerRepo struct {
	byLeadID map[string]*customer.Customer
	byEmail  map[string]*customer.Customer
	creates  int

	// hideLookups makes the next N FindByLeadID calls miss, simulating a
	// concurrent insert landing between the guard check and our insert
	hideLookups int

	// lookupErr fails every guard lookup, simulating a store outage
	lookupErr error
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	if c.LeadID != nil {
		if _, exists := m.byLeadID[c.LeadID.Hex()]; exists {
			return duplicateKeyErr()
		}
		m.byLeadID[c.LeadID.Hex()] = c
	}
	if c.Email != "" {
		m.byEmail[c.Email] = c
	}
	m.creates++
	return nil
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockCustomerRepo) FindByLeadID(ctx context.Context, leadID string) (*customer.Customer, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.hideLookups > 0 {
		m.hideLookups--
		return nil, mongo.ErrNoDocuments
	}
	if c, ok := m.byLeadID[leadID]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockCustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockCustomerRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]customer.Customer, int64, error) {
	return nil, 0, nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, id string, c *customer.Customer) error {
	return nil
}
func (m *mockCustomerRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockCustomerRepo) EnsureIndexes(ctx context.Context) error     { return nil }

type noopActivity struct{}

func (noopActivity) Log(ctx context.Context, entityType, entityID, note string) error { return nil }
func (noopActivity) LogTyped(ctx context.Context, entityType, entityID, note string, entryType activity.EntryType) error {
	return nil
}
func (noopActivity) LogSafe(ctx context.Context, entityType, entityID, note string) {}
func (noopActivity) LogTypedSafe(ctx context.Context, entityType, entityID, note string, entryType activity.EntryType) {
}
func (noopActivity) ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]activity.Entry, error) {
	return nil, nil
}

type recordingEmitter struct {
	events []*notification.Event
}

func (e *recordingEmitter) Emit(ctx context.Context, event *notification.Event) error {
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) EmitSafe(ctx context.Context, event *notification.Event) {
	_ = e.Emit(ctx, event)
}

func conversionFixture() (*mockLeadRepo, *mockCustomerRepo, *recordingEmitter, LeadService, *Lead) {
	lead := &Lead{
		ID:      primitive.NewObjectID(),
		Name:    "Acme Inc",
		Email:   "buyer@acme.test",
		Status:  StatusQualified,
		OwnerID: primitive.NewObjectID().Hex(),
	}

	leadRepo := &mockLeadRepo{leads: map[string]*Lead{lead.ID.Hex(): lead}}
	customerRepo := &mockCustomerRepo{
		byLeadID: map[string]*customer.Customer{},
		byEmail:  map[string]*customer.Customer{},
	}
	emitter := &recordingEmitter{}
	service := NewLeadService(leadRepo, customerRepo, noopActivity{}, emitter)

	return leadRepo, customerRepo, emitter, service, lead
}

func TestConvertCreatesCustomerOnce(t *testing.T) {
	_, customerRepo, emitter, service, lead := conversionFixture()
	ctx := context.Background()

	first, err := service.ConvertToCustomer(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("first conversion failed: %v", err)
	}
	second, err := service.ConvertToCustomer(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("repeat conversion failed: %v", err)
	}

	if customerRepo.creates != 1 {
		t.Errorf("conversion created %d customers, want 1", customerRepo.creates)
	}
	if first.ID != second.ID {
		t.Errorf("repeat conversion returned a different customer: %s vs %s", first.ID.Hex(), second.ID.Hex())
	}
	if lead.Status != StatusConverted {
		t.Errorf("lead status = %q, want %q", lead.Status, StatusConverted)
	}
	// Only the first conversion notifies
	if len(emitter.events) != 1 {
		t.Errorf("conversion emitted %d events, want 1", len(emitter.events))
	}
}

func TestConvertCopiesLeadFields(t *testing.T) {
	_, _, _, service, lead := conversionFixture()

	converted, err := service.ConvertToCustomer(context.Background(), lead.ID.Hex())
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	if converted.Name != lead.Name || converted.Email != lead.Email || converted.OwnerID != lead.OwnerID {
		t.Errorf("customer %+v did not inherit lead fields", converted)
	}
	if converted.LeadID == nil || *converted.LeadID != lead.ID {
		t.Error("customer is missing the lead back-reference")
	}
}

func TestConvertReturnsExistingCustomerByEmail(t *testing.T) {
	_, customerRepo, _, service, lead := conversionFixture()

	// A customer with the lead's email already exists, created directly
	direct := &customer.Customer{ID: primitive.NewObjectID(), Name: "Acme Inc", Email: lead.Email}
	customerRepo.byEmail[lead.Email] = direct

	converted, err := service.ConvertToCustomer(context.Background(), lead.ID.Hex())
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if converted.ID != direct.ID {
		t.Error("conversion must return the existing customer instead of creating a duplicate")
	}
	if customerRepo.creates != 0 {
		t.Errorf("conversion created %d customers, want 0", customerRepo.creates)
	}
}

func TestConvertPropagatesGuardLookupFailure(t *testing.T) {
	_, customerRepo, _, service, lead := conversionFixture()

	// A failed guard lookup is not a miss; converting on top of it could
	// duplicate a customer the store just could not return.
	storeErr := errors.New("connection reset")
	customerRepo.lookupErr = storeErr

	_, err := service.ConvertToCustomer(context.Background(), lead.ID.Hex())
	if !errors.Is(err, storeErr) {
		t.Fatalf("conversion returned %v, want the store error", err)
	}
	if customerRepo.creates != 0 {
		t.Errorf("failed lookup still created %d customers", customerRepo.creates)
	}
}

func TestConvertLosingRaceReturnsWinner(t *testing.T) {
	_, customerRepo, _, service, lead := conversionFixture()

	// Simulate the race: the winner's row lands between the guard check
	// and our insert, so the insert trips the unique index and the
	// re-fetch resolves to the winner.
	winner := &customer.Customer{ID: primitive.NewObjectID(), LeadID: &lead.ID, Name: lead.Name}
	customerRepo.byLeadID[lead.ID.Hex()] = winner
	customerRepo.hideLookups = 1

	converted, err := service.ConvertToCustomer(context.Background(), lead.ID.Hex())
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if converted.ID != winner.ID {
		t.Errorf("losing conversion returned %s, want winner %s", converted.ID.Hex(), winner.ID.Hex())
	}
	if customerRepo.creates != 0 {
		t.Errorf("losing conversion created %d customers, want 0", customerRepo.creates)
	}
}

func TestConvertUnknownLead(t *testing.T) {
	_, _, _, service, _ := conversionFixture()

	if _, err := service.ConvertToCustomer(context.Background(), primitive.NewObjectID().Hex()); err == nil {
		t.Fatal("converting an unknown lead must fail")
	}
}

func TestUpdateRejectsConvertedLead(t *testing.T) {
	_, _, _, service, lead := conversionFixture()
	lead.Status = StatusConverted

	if err := service.UpdateLead(context.Background(), lead.ID.Hex(), &Lead{Name: "New name"}); err == nil {
		t.Fatal("updating a converted lead must fail")
	}
}
