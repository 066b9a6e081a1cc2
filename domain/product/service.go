/*
Domain Service

Domain services hold rules that need a repository to answer, but never write.
*/
package product

import (
	"context"
)

// DomainService Product domain service
type DomainService struct {
	productRepository Repository
}

func NewDomainService(productRepo Repository) *DomainService {
	return &DomainService{productRepository: productRepo}
}

// EnsureCodeAvailable fails with ErrCodeAlreadyExists when another product
// already uses code. The unique index remains the final guard against races.
func (s *DomainService) EnsureCodeAvailable(ctx context.Context, code string) error {
	existing, err := s.productRepository.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil {
		return NewCodeAlreadyExistsError(code)
	}
	return nil
}
