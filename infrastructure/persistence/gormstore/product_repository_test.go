package gormstore

import (
	"context"
	"errors"
	"testing"

	"pos/domain/product"
	"pos/domain/shared"
)

func seedProduct(t *testing.T, repo *ProductRepository, code, name string, price int64) *product.Product {
	t.Helper()
	p, err := product.NewProduct(code, name, price)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	if err := repo.Save(context.Background(), p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return p
}

func TestProductRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	p := seedProduct(t, repo, "4589901001018", "テクワン・消せるボールペン 黒", 180)
	if p.ProductID() == 0 {
		t.Fatal("Save should assign the generated id")
	}

	byCode, err := repo.FindByCode(ctx, "4589901001018")
	if err != nil || byCode == nil {
		t.Fatalf("FindByCode = %v, %v", byCode, err)
	}
	if byCode.ProductID() != p.ProductID() || byCode.Name() != "テクワン・消せるボールペン 黒" || byCode.Price().Amount() != 180 {
		t.Errorf("unexpected product %+v", byCode)
	}

	byID, err := repo.FindByID(ctx, p.ProductID())
	if err != nil || byID == nil || byID.Code().Value() != "4589901001018" {
		t.Fatalf("FindByID = %v, %v", byID, err)
	}
}

func TestProductRepository_AbsentIsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	p, err := repo.FindByCode(ctx, "0000000000000")
	if err != nil || p != nil {
		t.Errorf("FindByCode(absent) = %v, %v; want nil, nil", p, err)
	}
	p, err = repo.FindByID(ctx, 999)
	if err != nil || p != nil {
		t.Errorf("FindByID(absent) = %v, %v; want nil, nil", p, err)
	}
}

func TestProductRepository_DuplicateCode(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	seedProduct(t, repo, "4589901001025", "ノート", 450)

	dup, _ := product.NewProduct("4589901001025", "別のノート", 500)
	err := repo.Save(context.Background(), dup)
	if !errors.Is(err, product.ErrCodeAlreadyExists) {
		t.Errorf("err = %v, want ErrCodeAlreadyExists", err)
	}
}

func TestProductRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))
	p := seedProduct(t, repo, "4589901001032", "ハイブリッドカッター Pro", 800)

	if err := p.Update("ハイブリッドカッター Pro2", 880); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := repo.FindByID(ctx, p.ProductID())
	if got.Name() != "ハイブリッドカッター Pro2" || got.Price().Amount() != 880 {
		t.Errorf("update not persisted: %s %d", got.Name(), got.Price().Amount())
	}

	// 未变化的保存不应报错
	if err := repo.Save(ctx, got); err != nil {
		t.Errorf("Save unchanged: %v", err)
	}

	ghost := product.RebuildFromDTO(product.ReconstructionDTO{ID: 12345, Code: "X", Name: "ghost", Price: 1})
	if err := repo.Save(ctx, ghost); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("Save(ghost) err = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_ListPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))
	codes := []string{"A1", "A2", "A3", "A4", "A5"}
	for i, c := range codes {
		seedProduct(t, repo, c, "item "+c, int64(100*(i+1)))
	}

	page, err := repo.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 || page[0].Code().Value() != "A2" || page[1].Code().Value() != "A3" {
		t.Errorf("unexpected page %v", page)
	}

	all, _ := repo.List(ctx, 0, 0)
	if len(all) != len(codes) {
		t.Errorf("default limit returned %d rows, want %d", len(all), len(codes))
	}

	empty, _ := repo.List(ctx, 10, 5)
	if len(empty) != 0 {
		t.Errorf("offset past end returned %d rows", len(empty))
	}
}

func TestProductRepository_FindBySpecification(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))
	seedProduct(t, repo, "4589901001018", "消せるボールペン", 180)
	seedProduct(t, repo, "4589901001025", "スーパーノート", 450)
	seedProduct(t, repo, "4589901001049", "スマート付箋", 320)
	seedProduct(t, repo, "4589901001056", "疲れない椅子", 12000)

	tests := []struct {
		name  string
		spec  shared.Specification[*product.Product]
		codes []string
	}{
		{"by code", product.NewByCodeSpecification("4589901001025"), []string{"4589901001025"}},
		{"name contains", product.NewByNameContainsSpecification("ノート"), []string{"4589901001025"}},
		{"price range", product.NewByPriceRangeSpecification(300, 1000), []string{"4589901001025", "4589901001049"}},
		{"min only", product.NewByPriceRangeSpecification(1000, 0), []string{"4589901001056"}},
		{"and", shared.And(product.NewByPriceRangeSpecification(0, 500), product.NewByNameContainsSpecification("ス")),
			[]string{"4589901001025", "4589901001049"}},
		{"or", shared.Or(product.NewByCodeSpecification("4589901001018"), product.NewByCodeSpecification("4589901001056")),
			[]string{"4589901001018", "4589901001056"}},
		{"not", shared.Not(product.NewByPriceRangeSpecification(200, 0)), []string{"4589901001018"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindBySpecification(ctx, tt.spec, 0, 10)
			if err != nil {
				t.Fatalf("FindBySpecification: %v", err)
			}
			if len(got) != len(tt.codes) {
				t.Fatalf("got %d products, want %d", len(got), len(tt.codes))
			}
			for i, p := range got {
				if p.Code().Value() != tt.codes[i] {
					t.Errorf("[%d] code = %s, want %s", i, p.Code().Value(), tt.codes[i])
				}
			}
		})
	}
}

func TestProductRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))
	p := seedProduct(t, repo, "4589901001049", "スマート付箋", 320)

	if err := repo.Remove(ctx, p.ProductID()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got, _ := repo.FindByID(ctx, p.ProductID()); got != nil {
		t.Error("product still present after Remove")
	}
	if err := repo.Remove(ctx, p.ProductID()); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("second Remove err = %v, want ErrProductNotFound", err)
	}
}
