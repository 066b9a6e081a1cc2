package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pos/domain/product"
	"pos/domain/purchase"
	"pos/domain/shared"
)

// ErrInjected is the default failure used by the injection switches
var ErrInjected = errors.New("injected failure")

type storedTransaction struct {
	header purchase.ReconstructionDTO
	lines  []purchase.Line
}

// MockTransactionRepository in-memory purchase store with failure injection
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[int64]*storedTransaction
	nextID       int64

	// Products, when set, emulates the product foreign key on detail rows
	Products *MockProductRepository

	InsertHeaderErr  error
	UpdateTotalsErr  error
	FindErr          error
	FailOnLine       int // 1-based sequence whose InsertLine fails; 0 disables
	InsertLineErr    error
	InsertLineCalls  int
	UpdateTotalCalls int
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[int64]*storedTransaction),
		nextID:       1,
	}
}

func (r *MockTransactionRepository) Begin() func() {
	r.mu.RLock()
	snapshot := make(map[int64]*storedTransaction, len(r.transactions))
	for k, v := range r.transactions {
		copied := *v
		copied.lines = append([]purchase.Line(nil), v.lines...)
		snapshot[k] = &copied
	}
	r.mu.RUnlock()

	// 自增序号不回滚，与数据库行为一致
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.transactions = snapshot
	}
}

// Count committed headers
func (r *MockTransactionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transactions)
}

// LineCount committed detail rows across all headers
func (r *MockTransactionRepository) LineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.transactions {
		n += len(t.lines)
	}
	return n
}

func (r *MockTransactionRepository) InsertHeader(ctx context.Context, t *purchase.Transaction) error {
	if r.InsertHeaderErr != nil {
		return r.InsertHeaderErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.transactions[id] = &storedTransaction{header: purchase.ReconstructionDTO{
		ID:               id,
		RecordedAt:       t.RecordedAt(),
		Terminal:         t.Terminal(),
		TotalAmount:      t.TotalAmount().Amount(),
		TotalAmountExTax: t.TotalAmountExTax().Amount(),
	}}
	t.AssignID(id)
	return nil
}

func (r *MockTransactionRepository) InsertLine(ctx context.Context, transactionID int64, line purchase.Line) error {
	r.InsertLineCalls++
	if r.FailOnLine > 0 && line.Sequence() == r.FailOnLine {
		if r.InsertLineErr != nil {
			return r.InsertLineErr
		}
		return ErrInjected
	}
	if r.Products != nil && !r.Products.exists(line.ProductID()) {
		return product.NewProductNotFoundError(line.ProductID())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.transactions[transactionID]
	if !ok {
		return purchase.NewTransactionNotFoundError(transactionID)
	}
	for _, existing := range stored.lines {
		if existing.Sequence() == line.Sequence() {
			return errors.New("duplicate detail key")
		}
	}
	stored.lines = append(stored.lines, line)
	return nil
}

func (r *MockTransactionRepository) UpdateTotals(ctx context.Context, t *purchase.Transaction) error {
	r.UpdateTotalCalls++
	if r.UpdateTotalsErr != nil {
		return r.UpdateTotalsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.transactions[t.TransactionID()]
	if !ok {
		return purchase.NewTransactionNotFoundError(t.TransactionID())
	}
	stored.header.TotalAmount = t.TotalAmount().Amount()
	stored.header.TotalAmountExTax = t.TotalAmountExTax().Amount()
	return nil
}

func (r *MockTransactionRepository) FindByID(ctx context.Context, id int64) (*purchase.Transaction, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	return rebuild(stored), nil
}

func rebuild(stored *storedTransaction) *purchase.Transaction {
	dto := stored.header
	dto.Lines = append([]purchase.Line(nil), stored.lines...)
	sort.Slice(dto.Lines, func(i, j int) bool { return dto.Lines[i].Sequence() < dto.Lines[j].Sequence() })
	return purchase.RebuildFromDTO(dto)
}

func (r *MockTransactionRepository) List(ctx context.Context, offset, limit int) ([]*purchase.Transaction, error) {
	return r.FindBySpecification(ctx, nil, offset, limit)
}

func (r *MockTransactionRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*purchase.Transaction], offset, limit int) ([]*purchase.Transaction, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	ids := make([]int64, 0, len(r.transactions))
	for id := range r.transactions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	all := make([]*purchase.Transaction, 0, len(ids))
	for _, id := range ids {
		t := rebuild(r.transactions[id])
		if spec == nil || spec.IsSatisfiedBy(ctx, t) {
			all = append(all, t)
		}
	}
	r.mu.RUnlock()

	return page(all, offset, limit, purchase.DefaultPageSize, purchase.MaxPageSize), nil
}

var _ purchase.Repository = (*MockTransactionRepository)(nil)
