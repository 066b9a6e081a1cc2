package product

import (
	"context"
	"strings"

	"pos/domain/shared"
)

type ByCodeSpecification struct {
	Code string
}

func (spec ByCodeSpecification) IsSatisfiedBy(ctx context.Context, entity *Product) bool {
	return entity.Code().Value() == spec.Code
}

// ByNameContainsSpecification matches a substring of the product name
type ByNameContainsSpecification struct {
	Keyword string
}

func (spec ByNameContainsSpecification) IsSatisfiedBy(ctx context.Context, entity *Product) bool {
	return strings.Contains(entity.Name(), spec.Keyword)
}

// ByPriceRangeSpecification is inclusive on both ends; a zero bound is ignored
type ByPriceRangeSpecification struct {
	Min int64
	Max int64
}

func (spec ByPriceRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Product) bool {
	price := entity.Price().Amount()
	if spec.Min > 0 && price < spec.Min {
		return false
	}
	if spec.Max > 0 && price > spec.Max {
		return false
	}
	return true
}

func NewByCodeSpecification(code string) shared.Specification[*Product] {
	return ByCodeSpecification{Code: code}
}
func NewByNameContainsSpecification(keyword string) shared.Specification[*Product] {
	return ByNameContainsSpecification{Keyword: keyword}
}
func NewByPriceRangeSpecification(min, max int64) shared.Specification[*Product] {
	return ByPriceRangeSpecification{Min: min, Max: max}
}
