package specification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pos/domain/product"
	"pos/domain/purchase"
	"pos/domain/shared"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type productRow struct {
	PrdID int64 `gorm:"primaryKey"`
	Code  string
	Name  string
	Price int64
}

func (productRow) TableName() string { return "product_master" }

type transactionRow struct {
	TrnID    int64 `gorm:"primaryKey"`
	StoreCd  string
	PosNo    string
	Datetime time.Time
}

func (transactionRow) TableName() string { return "transactions" }

// 不支持的规约类型
type inStockSpecification struct{}

func (inStockSpecification) IsSatisfiedBy(ctx context.Context, entity *product.Product) bool {
	return true
}

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func productSQL(t *testing.T, spec shared.Specification[*product.Product]) (string, []interface{}) {
	t.Helper()
	scope, err := NewGormTranslator().ProductScope(spec)
	if err != nil {
		t.Fatalf("ProductScope: %v", err)
	}
	var rows []productRow
	stmt := dryRun(t).Model(&productRow{}).Scopes(scope).Find(&rows).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestProductScope_Leaves(t *testing.T) {
	tests := []struct {
		name     string
		spec     shared.Specification[*product.Product]
		contains []string
		vars     int
	}{
		{"by code", product.NewByCodeSpecification("4901234567890"), []string{"code", "="}, 1},
		{"name contains", product.NewByNameContainsSpecification("お茶"), []string{"name", "LIKE"}, 1},
		{"price range", product.NewByPriceRangeSpecification(100, 500), []string{"price", ">=", "<="}, 2},
		{"price min only", product.NewByPriceRangeSpecification(100, 0), []string{"price", ">="}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, vars := productSQL(t, tt.spec)
			if !strings.Contains(sql, "WHERE") {
				t.Fatalf("expected WHERE clause, got %q", sql)
			}
			for _, want := range tt.contains {
				if !strings.Contains(sql, want) {
					t.Errorf("sql %q missing %q", sql, want)
				}
			}
			if len(vars) != tt.vars {
				t.Errorf("vars = %v, want %d", vars, tt.vars)
			}
		})
	}
}

func TestProductScope_LikeWrapsKeyword(t *testing.T) {
	_, vars := productSQL(t, product.NewByNameContainsSpecification("お茶"))
	if len(vars) != 1 || vars[0] != "%お茶%" {
		t.Fatalf("vars = %v, want [%%お茶%%]", vars)
	}
}

func TestProductScope_Unconstrained(t *testing.T) {
	specs := map[string]shared.Specification[*product.Product]{
		"nil":             nil,
		"empty keyword":   product.NewByNameContainsSpecification(""),
		"open price":      product.NewByPriceRangeSpecification(0, 0),
		"or with open":    shared.Or(product.NewByCodeSpecification("A"), product.NewByNameContainsSpecification("")),
		"and of nothings": shared.And(product.NewByNameContainsSpecification(""), product.NewByPriceRangeSpecification(0, 0)),
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			sql, vars := productSQL(t, spec)
			if strings.Contains(sql, "WHERE") {
				t.Errorf("expected no WHERE clause, got %q", sql)
			}
			if len(vars) != 0 {
				t.Errorf("vars = %v, want none", vars)
			}
		})
	}
}

func TestProductScope_Composites(t *testing.T) {
	t.Run("and drops unconstrained side", func(t *testing.T) {
		sql, vars := productSQL(t, shared.And(
			product.NewByNameContainsSpecification("茶"),
			product.NewByPriceRangeSpecification(0, 0),
		))
		if !strings.Contains(sql, "LIKE") || strings.Contains(sql, "price") {
			t.Errorf("unexpected sql %q", sql)
		}
		if len(vars) != 1 {
			t.Errorf("vars = %v", vars)
		}
	})

	t.Run("or", func(t *testing.T) {
		sql, vars := productSQL(t, shared.Or(
			product.NewByCodeSpecification("A"),
			product.NewByCodeSpecification("B"),
		))
		if !strings.Contains(sql, "OR") {
			t.Errorf("expected OR in %q", sql)
		}
		if len(vars) != 2 {
			t.Errorf("vars = %v", vars)
		}
	})

	t.Run("not", func(t *testing.T) {
		sql, vars := productSQL(t, shared.Not(product.NewByCodeSpecification("A")))
		if !strings.Contains(sql, "code") {
			t.Errorf("unexpected sql %q", sql)
		}
		if len(vars) != 1 || vars[0] != "A" {
			t.Errorf("vars = %v", vars)
		}
	})

	t.Run("not of unconstrained matches nothing", func(t *testing.T) {
		sql, _ := productSQL(t, shared.Not(product.NewByNameContainsSpecification("")))
		if !strings.Contains(sql, "1 = 0") {
			t.Errorf("expected 1 = 0 in %q", sql)
		}
	})
}

func TestProductScope_Unsupported(t *testing.T) {
	translator := NewGormTranslator()

	_, err := translator.ProductScope(inStockSpecification{})
	if !errors.Is(err, ErrUnsupportedSpecification) {
		t.Fatalf("expected ErrUnsupportedSpecification, got %v", err)
	}

	// 组合内部的不支持类型同样报错
	_, err = translator.ProductScope(shared.And(product.NewByCodeSpecification("A"), shared.Not[*product.Product](inStockSpecification{})))
	if !errors.Is(err, ErrUnsupportedSpecification) {
		t.Fatalf("expected ErrUnsupportedSpecification from composite, got %v", err)
	}
}

func TestTransactionScope(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name     string
		spec     shared.Specification[*purchase.Transaction]
		contains []string
		vars     int
	}{
		{"store", purchase.NewByStoreSpecification("12", ""), []string{"store_cd"}, 1},
		{"store and register", purchase.NewByStoreSpecification("12", "3"), []string{"store_cd", "pos_no"}, 2},
		{"date range", purchase.NewByDateRangeSpecification(start, end), []string{"datetime", ">=", "<="}, 2},
		{"from only", purchase.NewByDateRangeSpecification(start, time.Time{}), []string{"datetime", ">="}, 1},
		{
			"store within range",
			shared.And(purchase.NewByStoreSpecification("12", ""), purchase.NewByDateRangeSpecification(start, end)),
			[]string{"store_cd", "datetime", "AND"},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := NewGormTranslator().TransactionScope(tt.spec)
			if err != nil {
				t.Fatalf("TransactionScope: %v", err)
			}
			var rows []transactionRow
			stmt := dryRun(t).Model(&transactionRow{}).Scopes(scope).Find(&rows).Statement
			sql := stmt.SQL.String()
			for _, want := range tt.contains {
				if !strings.Contains(sql, want) {
					t.Errorf("sql %q missing %q", sql, want)
				}
			}
			if len(stmt.Vars) != tt.vars {
				t.Errorf("vars = %v, want %d", stmt.Vars, tt.vars)
			}
		})
	}
}
