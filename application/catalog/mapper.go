package catalog

import (
	"pos/domain/product"
	"pos/domain/shared"
)

func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ProductID: p.ProductID(),
		Code:      p.Code().Value(),
		Name:      p.Name(),
		Price:     p.Price().Amount(),
	}
}

func toProductResponses(products []*product.Product) []*ProductResponse {
	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// toSpecification combines the active filters with AND
func (q ListProductsQuery) toSpecification() shared.Specification[*product.Product] {
	var spec shared.Specification[*product.Product]
	add := func(s shared.Specification[*product.Product]) {
		if spec == nil {
			spec = s
			return
		}
		spec = shared.And(spec, s)
	}
	if q.Name != "" {
		add(product.NewByNameContainsSpecification(q.Name))
	}
	if q.MinPrice > 0 || q.MaxPrice > 0 {
		add(product.NewByPriceRangeSpecification(q.MinPrice, q.MaxPrice))
	}
	return spec
}
