package specification

import (
	"errors"
	"fmt"

	"pos/domain/product"
	"pos/domain/purchase"
	"pos/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnsupportedSpecification is returned for specifications that have no SQL form
var ErrUnsupportedSpecification = errors.New("unsupported specification")

// Scope is a GORM scope produced from a domain specification
type Scope func(*gorm.DB) *gorm.DB

// GormTranslator converts domain specifications to GORM where clauses
// Infrastructure depends on domain, so concrete specification types are matched here
type GormTranslator struct{}

// NewGormTranslator creates a new GORM translator
func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

// ProductScope translates a product specification against product_master
func (t *GormTranslator) ProductScope(spec shared.Specification[*product.Product]) (Scope, error) {
	expr, err := translate(spec, productLeaf)
	if err != nil {
		return nil, err
	}
	return whereScope(expr), nil
}

// TransactionScope translates a transaction specification against the transactions header table
func (t *GormTranslator) TransactionScope(spec shared.Specification[*purchase.Transaction]) (Scope, error) {
	expr, err := translate(spec, transactionLeaf)
	if err != nil {
		return nil, err
	}
	return whereScope(expr), nil
}

func whereScope(expr clause.Expression) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if expr == nil {
			return db
		}
		return db.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
	}
}

// translate walks And/Or/Not composites; a nil expression means "no condition"
func translate[T any](spec shared.Specification[T], leaf func(shared.Specification[T]) (clause.Expression, bool)) (clause.Expression, error) {
	if spec == nil {
		return nil, nil
	}

	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		left, right, err := translatePair(s.Left, s.Right, leaf)
		if err != nil {
			return nil, err
		}
		return combine(clause.And, left, right), nil
	case shared.OrSpecification[T]:
		left, right, err := translatePair(s.Left, s.Right, leaf)
		if err != nil {
			return nil, err
		}
		// 任一侧无条件时，OR 恒为真
		if left == nil || right == nil {
			return nil, nil
		}
		return clause.Or(left, right), nil
	case shared.NotSpecification[T]:
		inner, err := translate(s.Spec, leaf)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return clause.Expr{SQL: "1 = 0"}, nil
		}
		return clause.Not(inner), nil
	}

	expr, ok := leaf(spec)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSpecification, spec)
	}
	return expr, nil
}

func translatePair[T any](l, r shared.Specification[T], leaf func(shared.Specification[T]) (clause.Expression, bool)) (clause.Expression, clause.Expression, error) {
	left, err := translate(l, leaf)
	if err != nil {
		return nil, nil, err
	}
	right, err := translate(r, leaf)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func combine(op func(...clause.Expression) clause.Expression, exprs ...clause.Expression) clause.Expression {
	present := make([]clause.Expression, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			present = append(present, e)
		}
	}
	switch len(present) {
	case 0:
		return nil
	case 1:
		return present[0]
	default:
		return op(present...)
	}
}

func productLeaf(spec shared.Specification[*product.Product]) (clause.Expression, bool) {
	switch s := spec.(type) {
	case product.ByCodeSpecification:
		return clause.Eq{Column: clause.Column{Name: "code"}, Value: s.Code}, true
	case product.ByNameContainsSpecification:
		if s.Keyword == "" {
			return nil, true
		}
		return clause.Like{Column: clause.Column{Name: "name"}, Value: "%" + s.Keyword + "%"}, true
	case product.ByPriceRangeSpecification:
		var exprs []clause.Expression
		if s.Min > 0 {
			exprs = append(exprs, clause.Gte{Column: clause.Column{Name: "price"}, Value: s.Min})
		}
		if s.Max > 0 {
			exprs = append(exprs, clause.Lte{Column: clause.Column{Name: "price"}, Value: s.Max})
		}
		return combine(clause.And, exprs...), true
	}
	return nil, false
}

func transactionLeaf(spec shared.Specification[*purchase.Transaction]) (clause.Expression, bool) {
	switch s := spec.(type) {
	case purchase.ByStoreSpecification:
		exprs := []clause.Expression{clause.Eq{Column: clause.Column{Name: "store_cd"}, Value: s.StoreCode}}
		if s.PosNo != "" {
			exprs = append(exprs, clause.Eq{Column: clause.Column{Name: "pos_no"}, Value: s.PosNo})
		}
		return combine(clause.And, exprs...), true
	case purchase.ByDateRangeSpecification:
		var exprs []clause.Expression
		if !s.Start.IsZero() {
			exprs = append(exprs, clause.Gte{Column: clause.Column{Name: "datetime"}, Value: s.Start})
		}
		if !s.End.IsZero() {
			exprs = append(exprs, clause.Lte{Column: clause.Column{Name: "datetime"}, Value: s.End})
		}
		return combine(clause.And, exprs...), true
	}
	return nil, false
}
