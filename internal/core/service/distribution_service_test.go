package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

// memFixture is an in-memory implementation of the agent repository, customer
// repository, distribution store, and upload locker, shared by the service
// tests in this package.
type memFixture struct {
	agents     []*domain.Agent
	customers  map[string]domain.Customer
	nextID     int
	locked     bool
	replaceErr error
	listErr    error
}

func newMemFixture() *memFixture {
	return &memFixture{customers: make(map[string]domain.Customer)}
}

func (f *memFixture) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *memFixture) addAgent(name string, active bool) *domain.Agent {
	a := &domain.Agent{
		ID:                f.id("agent"),
		Name:              name,
		Email:             name + "@example.com",
		Mobile:            "+1000",
		Active:            active,
		AssignedCustomers: []string{},
		CreatedAt:         time.Now().UTC(),
	}
	f.agents = append(f.agents, a)
	return a
}

// --- ports.AgentRepository ---

func (f *memFixture) Create(_ context.Context, agent *domain.Agent) (*domain.Agent, error) {
	for _, a := range f.agents {
		if a.Email == agent.Email {
			return nil, domain.ErrAgentExists
		}
	}
	clone := *agent
	clone.ID = f.id("agent")
	f.agents = append(f.agents, &clone)
	out := clone
	return &out, nil
}

func (f *memFixture) List(_ context.Context) ([]*domain.Agent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Agent, 0, len(f.agents))
	for _, a := range f.agents {
		clone := *a
		clone.AssignedCustomers = append([]string{}, a.AssignedCustomers...)
		out = append(out, &clone)
	}
	return out, nil
}

func (f *memFixture) FindActive(_ context.Context, limit int) ([]*domain.Agent, error) {
	var out []*domain.Agent
	for _, a := range f.agents {
		if !a.Active {
			continue
		}
		clone := *a
		out = append(out, &clone)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- ports.CustomerRepository ---

func (f *memFixture) FindByIDs(_ context.Context, ids []string) (map[string]domain.Customer, error) {
	out := make(map[string]domain.Customer, len(ids))
	for _, id := range ids {
		if c, ok := f.customers[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// --- ports.DistributionStore ---

func (f *memFixture) ReplaceAll(_ context.Context, rows []ports.AssignedRow) ([]domain.Customer, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.customers = make(map[string]domain.Customer)
	for _, a := range f.agents {
		a.AssignedCustomers = []string{}
	}
	now := time.Now().UTC()
	result := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		c := domain.Customer{
			ID:            f.id("cust"),
			FirstName:     row.FirstName,
			Phone:         row.Phone,
			Notes:         row.Notes,
			AssignedAgent: row.AgentID,
			UploadedAt:    now,
		}
		f.customers[c.ID] = c
		for _, a := range f.agents {
			if a.ID == row.AgentID {
				a.AssignedCustomers = append(a.AssignedCustomers, c.ID)
			}
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *memFixture) DeleteAgent(_ context.Context, id string) error {
	for i, a := range f.agents {
		if a.ID == id {
			for _, cid := range a.AssignedCustomers {
				delete(f.customers, cid)
			}
			f.agents = append(f.agents[:i], f.agents[i+1:]...)
			return nil
		}
	}
	return domain.ErrAgentNotFound
}

// --- ports.UploadLocker ---

func (f *memFixture) Acquire(_ context.Context) error {
	if f.locked {
		return domain.ErrUploadInProgress
	}
	f.locked = true
	return nil
}

func (f *memFixture) Release(_ context.Context) error {
	f.locked = false
	return nil
}

func newDistService(f *memFixture, maxAgents int) *DistributionService {
	return NewDistributionService(f, f, f, f, maxAgents, zerolog.Nop())
}

func csvUpload(rows ...string) ports.UploadInput {
	data := "FirstName,Phone,Notes\n" + strings.Join(rows, "\n") + "\n"
	return ports.UploadInput{Filename: "leads.csv", ContentType: "text/csv", Data: []byte(data)}
}

func csvRows(n int) []string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, fmt.Sprintf("Lead%d,+555%04d,note %d", i, i, i))
	}
	return rows
}

func TestUpload_EvenSplit(t *testing.T) {
	f := newMemFixture()
	for i := 0; i < 3; i++ {
		f.addAgent(fmt.Sprintf("agent%d", i), true)
	}
	svc := newDistService(f, 5)

	result, err := svc.Upload(context.Background(), csvUpload(csvRows(12)...))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if result.Uploaded != 12 {
		t.Fatalf("expected 12 uploaded, got %d", result.Uploaded)
	}
	for _, entry := range result.Distribution {
		if entry.CustomersCount != 4 {
			t.Fatalf("agent %s: expected 4 customers, got %d", entry.AgentName, entry.CustomersCount)
		}
	}
}

func TestUpload_UnevenSplit(t *testing.T) {
	f := newMemFixture()
	for i := 0; i < 3; i++ {
		f.addAgent(fmt.Sprintf("agent%d", i), true)
	}
	svc := newDistService(f, 5)

	result, err := svc.Upload(context.Background(), csvUpload(csvRows(7)...))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	// 7 rows over 3 agents: indices 0..6 mod 3 give counts 3, 2, 2.
	want := []int{3, 2, 2}
	for i, entry := range result.Distribution {
		if entry.CustomersCount != want[i] {
			t.Fatalf("agent %d: expected %d customers, got %d", i, want[i], entry.CustomersCount)
		}
	}
}

func TestUpload_RoundRobinOrder(t *testing.T) {
	f := newMemFixture()
	agents := make([]*domain.Agent, 3)
	for i := range agents {
		agents[i] = f.addAgent(fmt.Sprintf("agent%d", i), true)
	}
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(9)...)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	// Row i must belong to agent i mod 3, and each agent's customers must be
	// in file order.
	for i, a := range agents {
		if len(a.AssignedCustomers) != 3 {
			t.Fatalf("agent %d: expected 3 customers, got %d", i, len(a.AssignedCustomers))
		}
		for j, cid := range a.AssignedCustomers {
			c := f.customers[cid]
			wantName := fmt.Sprintf("Lead%d", j*3+i)
			if c.FirstName != wantName {
				t.Fatalf("agent %d slot %d: expected %s, got %s", i, j, wantName, c.FirstName)
			}
		}
	}
}

func TestUpload_CapsActiveAgents(t *testing.T) {
	f := newMemFixture()
	for i := 0; i < 7; i++ {
		f.addAgent(fmt.Sprintf("agent%d", i), true)
	}
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(10)...)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	for i, a := range f.agents {
		want := 2
		if i >= 5 {
			want = 0
		}
		if len(a.AssignedCustomers) != want {
			t.Fatalf("agent %d: expected %d customers, got %d", i, want, len(a.AssignedCustomers))
		}
	}
}

func TestUpload_SkipsInactiveAgents(t *testing.T) {
	f := newMemFixture()
	f.addAgent("active0", true)
	f.addAgent("inactive", false)
	f.addAgent("active1", true)
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(4)...)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if got := len(f.agents[1].AssignedCustomers); got != 0 {
		t.Fatalf("inactive agent received %d customers", got)
	}
	if len(f.agents[0].AssignedCustomers) != 2 || len(f.agents[2].AssignedCustomers) != 2 {
		t.Fatalf("active agents did not split evenly")
	}
}

func TestUpload_ReplacesPriorCustomers(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(5)...)); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	firstIDs := append([]string{}, f.agents[0].AssignedCustomers...)

	if _, err := svc.Upload(context.Background(), csvUpload("Fresh,+5550000,")); err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	if len(f.customers) != 1 {
		t.Fatalf("expected 1 customer after replace, got %d", len(f.customers))
	}
	for _, id := range firstIDs {
		if _, ok := f.customers[id]; ok {
			t.Fatalf("customer %s from first upload survived the replace", id)
		}
	}
}

func TestUpload_EmptyFile(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	svc := newDistService(f, 5)

	input := ports.UploadInput{Filename: "leads.csv", ContentType: "text/csv", Data: []byte("FirstName,Phone\n")}
	if _, err := svc.Upload(context.Background(), input); err != domain.ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestUpload_MissingColumns(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	svc := newDistService(f, 5)

	// Seed existing state; a rejected upload must not disturb it.
	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(3)...)); err != nil {
		t.Fatalf("seed upload failed: %v", err)
	}

	input := ports.UploadInput{
		Filename:    "leads.csv",
		ContentType: "text/csv",
		Data:        []byte("Name,Email\nBob,bob@example.com\n"),
	}
	if _, err := svc.Upload(context.Background(), input); err != domain.ErrMissingColumns {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if len(f.customers) != 3 {
		t.Fatalf("rejected upload disturbed existing customers: %d", len(f.customers))
	}
}

func TestUpload_NoActiveAgents(t *testing.T) {
	f := newMemFixture()
	f.addAgent("inactive", false)
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(2)...)); err != domain.ErrNoActiveAgents {
		t.Fatalf("expected ErrNoActiveAgents, got %v", err)
	}
	if len(f.customers) != 0 {
		t.Fatalf("rejected upload created customers")
	}
}

func TestUpload_LockHeld(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	f.locked = true
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(2)...)); err != domain.ErrUploadInProgress {
		t.Fatalf("expected ErrUploadInProgress, got %v", err)
	}
}

func TestUpload_ReleasesLock(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(2)...)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if f.locked {
		t.Fatalf("lock not released after upload")
	}

	// Lock is released on failure paths past acquisition too.
	f.replaceErr = fmt.Errorf("boom")
	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(2)...)); err == nil {
		t.Fatalf("expected error from failing store")
	}
	if f.locked {
		t.Fatalf("lock not released after failed upload")
	}
}

func TestUpload_SucceedsWhenProjectionReadFails(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	f.listErr = fmt.Errorf("read failed")
	svc := newDistService(f, 5)

	// The replace commits before the distribution is read back; a read
	// failure afterwards must not turn a persisted upload into an error.
	result, err := svc.Upload(context.Background(), csvUpload(csvRows(3)...))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if result.Uploaded != 3 {
		t.Fatalf("expected 3 uploaded, got %d", result.Uploaded)
	}
	if len(result.Distribution) != 0 {
		t.Fatalf("expected empty distribution, got %d entries", len(result.Distribution))
	}
	if len(f.customers) != 3 {
		t.Fatalf("expected 3 persisted customers, got %d", len(f.customers))
	}
	if f.locked {
		t.Fatalf("lock not released")
	}
}

func TestUpload_CaseInsensitiveHeaders(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	svc := newDistService(f, 5)

	input := ports.UploadInput{
		Filename:    "leads.csv",
		ContentType: "text/csv",
		Data:        []byte("firstname,PHONE,notes\nAda,+5551234,vip\n"),
	}
	result, err := svc.Upload(context.Background(), input)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if result.Uploaded != 1 {
		t.Fatalf("expected 1 uploaded, got %d", result.Uploaded)
	}
	for _, c := range f.customers {
		if c.FirstName != "Ada" || c.Phone != "+5551234" || c.Notes != "vip" {
			t.Fatalf("unexpected customer: %+v", c)
		}
	}
}

func TestDistribution_Projection(t *testing.T) {
	f := newMemFixture()
	f.addAgent("agent0", true)
	f.addAgent("agent1", true)
	svc := newDistService(f, 5)

	if _, err := svc.Upload(context.Background(), csvUpload(csvRows(5)...)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	entries, err := svc.Distribution(context.Background())
	if err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	total := 0
	for _, e := range entries {
		if e.CustomersCount != len(e.Customers) {
			t.Fatalf("count %d does not match resolved customers %d", e.CustomersCount, len(e.Customers))
		}
		total += e.CustomersCount
	}
	if total != 5 {
		t.Fatalf("expected 5 customers total, got %d", total)
	}
}
