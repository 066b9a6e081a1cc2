package mocks

import (
	"context"
	"sort"
	"sync"

	"pos/domain/product"
	"pos/domain/shared"
)

// MockProductRepository in-memory catalog store
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[int64]product.ReconstructionDTO
	nextID   int64

	// Err, when set, is returned by every method
	Err error
	// InUse marks product ids referenced by recorded transactions
	InUse map[int64]bool
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int64]product.ReconstructionDTO),
		nextID:   1,
		InUse:    make(map[int64]bool),
	}
}

// Seed stores products directly and returns their rebuilt aggregates
func (r *MockProductRepository) Seed(products ...product.ReconstructionDTO) []*product.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*product.Product, 0, len(products))
	for _, dto := range products {
		if dto.ID == 0 {
			dto.ID = r.nextID
		}
		if dto.ID >= r.nextID {
			r.nextID = dto.ID + 1
		}
		r.products[dto.ID] = dto
		out = append(out, product.RebuildFromDTO(dto))
	}
	return out
}

func (r *MockProductRepository) Begin() func() {
	r.mu.RLock()
	snapshot := make(map[int64]product.ReconstructionDTO, len(r.products))
	for k, v := range r.products {
		snapshot[k] = v
	}
	nextID := r.nextID
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.products = snapshot
		r.nextID = nextID
	}
}

func (r *MockProductRepository) Save(ctx context.Context, p *product.Product) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.products {
		if existing.Code == p.Code().Value() && id != p.ProductID() {
			return product.NewCodeAlreadyExistsError(existing.Code)
		}
	}

	if p.IsNew() {
		id := r.nextID
		r.nextID++
		r.products[id] = toDTO(id, p)
		p.AssignID(id)
		return nil
	}
	if _, ok := r.products[p.ProductID()]; !ok {
		return product.NewProductNotFoundError(p.ProductID())
	}
	r.products[p.ProductID()] = toDTO(p.ProductID(), p)
	return nil
}

func toDTO(id int64, p *product.Product) product.ReconstructionDTO {
	return product.ReconstructionDTO{ID: id, Code: p.Code().Value(), Name: p.Name(), Price: p.Price().Amount()}
}

func (r *MockProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	dto, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return product.RebuildFromDTO(dto), nil
}

func (r *MockProductRepository) FindByCode(ctx context.Context, code string) (*product.Product, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, dto := range r.products {
		if dto.Code == code {
			return product.RebuildFromDTO(dto), nil
		}
	}
	return nil, nil
}

func (r *MockProductRepository) List(ctx context.Context, offset, limit int) ([]*product.Product, error) {
	return r.FindBySpecification(ctx, nil, offset, limit)
}

func (r *MockProductRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*product.Product], offset, limit int) ([]*product.Product, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	all := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p := product.RebuildFromDTO(r.products[id])
		if spec == nil || spec.IsSatisfiedBy(ctx, p) {
			all = append(all, p)
		}
	}
	r.mu.RUnlock()

	return page(all, offset, limit, product.DefaultPageSize, product.MaxPageSize), nil
}

func (r *MockProductRepository) Remove(ctx context.Context, id int64) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return product.NewProductNotFoundError(id)
	}
	if r.InUse[id] {
		return product.NewProductInUseError(id)
	}
	delete(r.products, id)
	return nil
}

func (r *MockProductRepository) exists(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id]
	return ok
}

func page[T any](items []T, offset, limit, def, max int) []T {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

var _ product.Repository = (*MockProductRepository)(nil)
