package payments

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is an in-memory implementation of Provider. It keeps every object
// it creates so tests and local runs can inspect them.
type MockProvider struct {
	mu       sync.Mutex
	seq      int
	products map[string]ProductInput
	active   map[string]bool
	prices   map[string]*RemotePrice
	sessions []CheckoutInput
	calls    []string

	// FailOn makes the named operation return a provider error.
	FailOn map[string]error
}

// NewMockProvider creates an empty MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		products: make(map[string]ProductInput),
		active:   make(map[string]bool),
		prices:   make(map[string]*RemotePrice),
		FailOn:   make(map[string]error),
	}
}

func (m *MockProvider) record(op string) error {
	m.calls = append(m.calls, op)
	if err, ok := m.FailOn[op]; ok {
		if err == nil {
			err = &Error{Op: op, Type: "api_error", Message: "simulated failure"}
		}
		return err
	}
	return nil
}

func (m *MockProvider) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s_%d", prefix, m.seq)
}

// Fail makes op fail with a generic provider error.
func (m *MockProvider) Fail(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailOn[op] = nil
}

// Recover clears a failure set with Fail.
func (m *MockProvider) Recover(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.FailOn, op)
}

// CreateProduct stores a remote product.
func (m *MockProvider) CreateProduct(_ context.Context, in ProductInput) (*RemoteProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateProduct"); err != nil {
		return nil, err
	}
	id := m.nextID("prod")
	m.products[id] = in
	m.active[id] = in.Active
	return &RemoteProduct{ID: id, Active: in.Active}, nil
}

// UpdateProduct overwrites a remote product.
func (m *MockProvider) UpdateProduct(_ context.Context, id string, in ProductInput) (*RemoteProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateProduct"); err != nil {
		return nil, err
	}
	prev, ok := m.products[id]
	if !ok {
		return nil, &Error{Op: "update product", Type: ErrorTypeInvalidRequest, Code: "resource_missing", HTTPStatus: 404, Message: "No such product: " + id}
	}
	in.Images = prev.Images
	m.products[id] = in
	m.active[id] = in.Active
	return &RemoteProduct{ID: id, Active: in.Active}, nil
}

// SetProductActive toggles a remote product.
func (m *MockProvider) SetProductActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SetProductActive"); err != nil {
		return err
	}
	if _, ok := m.products[id]; !ok {
		return &Error{Op: "update product", Type: ErrorTypeInvalidRequest, Code: "resource_missing", HTTPStatus: 404, Message: "No such product: " + id}
	}
	m.active[id] = active
	return nil
}

// GetPrice returns a stored price.
func (m *MockProvider) GetPrice(_ context.Context, id string) (*RemotePrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetPrice"); err != nil {
		return nil, err
	}
	p, ok := m.prices[id]
	if !ok {
		return nil, &Error{Op: "retrieve price", Type: ErrorTypeInvalidRequest, Code: "resource_missing", HTTPStatus: 404, Message: "No such price: " + id}
	}
	cp := *p
	return &cp, nil
}

// CreatePrice stores a new active price.
func (m *MockProvider) CreatePrice(_ context.Context, productID string, unitAmount int64, currency string) (*RemotePrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreatePrice"); err != nil {
		return nil, err
	}
	p := &RemotePrice{
		ID:         m.nextID("price"),
		ProductID:  productID,
		UnitAmount: unitAmount,
		Currency:   currency,
		Active:     true,
	}
	m.prices[p.ID] = p
	cp := *p
	return &cp, nil
}

// ArchivePrice deactivates a stored price.
func (m *MockProvider) ArchivePrice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ArchivePrice"); err != nil {
		return err
	}
	p, ok := m.prices[id]
	if !ok {
		return &Error{Op: "archive price", Type: ErrorTypeInvalidRequest, Code: "resource_missing", HTTPStatus: 404, Message: "No such price: " + id}
	}
	p.Active = false
	return nil
}

// CreateCheckoutSession records the session request and returns a fake hosted URL.
func (m *MockProvider) CreateCheckoutSession(_ context.Context, in CheckoutInput) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateCheckoutSession"); err != nil {
		return nil, err
	}
	m.sessions = append(m.sessions, in)
	id := m.nextID("cs_test")
	return &CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

// DeletePrice forgets a price so later lookups fail as they do for a purged object.
func (m *MockProvider) DeletePrice(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prices, id)
}

// Product returns a stored remote product and its active flag.
func (m *MockProvider) Product(id string) (ProductInput, bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.products[id]
	return in, m.active[id], ok
}

// Price returns a copy of a stored price.
func (m *MockProvider) Price(id string) (RemotePrice, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prices[id]
	if !ok {
		return RemotePrice{}, false
	}
	return *p, true
}

// Sessions returns the checkout session requests seen so far.
func (m *MockProvider) Sessions() []CheckoutInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CheckoutInput(nil), m.sessions...)
}

// Calls returns the operation names invoked so far, in order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CountCalls returns how many times op was invoked.
func (m *MockProvider) CountCalls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}
