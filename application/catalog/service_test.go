package catalog

import (
	"context"
	"errors"
	"testing"

	"pos/domain/product"
	"pos/infrastructure/persistence/mocks"
)

func newService() (*ApplicationService, *mocks.MockProductRepository, *mocks.MockOutbox) {
	repo := mocks.NewMockProductRepository()
	repo.Seed(
		product.ReconstructionDTO{ID: 1, Code: "4589901001018", Name: "テクワン・消せるボールペン 黒", Price: 180},
		product.ReconstructionDTO{ID: 2, Code: "4589901001025", Name: "テクワン・スーパーノート B5 5冊パック", Price: 450},
		product.ReconstructionDTO{ID: 3, Code: "4589901001032", Name: "ハイブリッドカッター Pro", Price: 800},
	)
	outbox := mocks.NewMockOutbox()
	uow := mocks.NewMockUnitOfWork(outbox, repo)
	return NewApplicationService(repo, mocks.NewMockUnitOfWorkFactory(uow)), repo, outbox
}

func price(v int64) *int64 { return &v }

func TestGetProductByCode(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	got, err := svc.GetProductByCode(ctx, "4589901001025")
	if err != nil {
		t.Fatal(err)
	}
	if got.ProductID != 2 || got.Price != 450 {
		t.Errorf("got %+v", got)
	}

	if _, err := svc.GetProductByCode(ctx, "9999999999999"); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestGetProduct(t *testing.T) {
	svc, _, _ := newService()
	if _, err := svc.GetProduct(context.Background(), 42); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
	got, err := svc.GetProduct(context.Background(), 3)
	if err != nil || got.Code != "4589901001032" {
		t.Errorf("got %+v, %v", got, err)
	}
}

func TestListProducts(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	page, err := svc.ListProducts(ctx, ListProductsQuery{Offset: 1, Limit: 1})
	if err != nil || len(page) != 1 || page[0].ProductID != 2 {
		t.Errorf("page = %+v, %v", page, err)
	}

	filtered, err := svc.ListProducts(ctx, ListProductsQuery{Name: "テクワン", MaxPrice: 200})
	if err != nil || len(filtered) != 1 || filtered[0].ProductID != 1 {
		t.Errorf("filtered = %+v, %v", filtered, err)
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _, outbox := newService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductRequest{Code: "4589901001049", Name: "スマート付箋 5色ミックス", Price: price(320)})
	if err != nil {
		t.Fatal(err)
	}
	if created.ProductID == 0 {
		t.Error("id not assigned")
	}
	events := outbox.Events()
	if len(events) != 1 || events[0].EventName() != "product.registered" {
		t.Errorf("events = %v", events)
	}

	_, err = svc.CreateProduct(ctx, CreateProductRequest{Code: "4589901001049", Name: "dup", Price: price(1)})
	if !errors.Is(err, product.ErrCodeAlreadyExists) {
		t.Errorf("err = %v, want ErrCodeAlreadyExists", err)
	}

	_, err = svc.CreateProduct(ctx, CreateProductRequest{Code: "X", Name: "neg", Price: price(-5)})
	if !errors.Is(err, product.ErrInvalidPrice) {
		t.Errorf("err = %v, want ErrInvalidPrice", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	svc, _, outbox := newService()
	ctx := context.Background()

	got, err := svc.UpdateProduct(ctx, 3, UpdateProductRequest{Name: "ハイブリッドカッター Pro2", Price: price(880)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "ハイブリッドカッター Pro2" || got.Price != 880 || got.Code != "4589901001032" {
		t.Errorf("got %+v", got)
	}
	if len(outbox.Events()) != 1 {
		t.Errorf("events = %d, want 1", len(outbox.Events()))
	}

	if _, err := svc.UpdateProduct(ctx, 99, UpdateProductRequest{Name: "x", Price: price(1)}); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, repo, outbox := newService()
	ctx := context.Background()
	repo.InUse[1] = true

	if err := svc.DeleteProduct(ctx, 1); !errors.Is(err, product.ErrProductInUse) {
		t.Errorf("err = %v, want ErrProductInUse", err)
	}
	if err := svc.DeleteProduct(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if p, _ := repo.FindByID(ctx, 2); p != nil {
		t.Error("product 2 still present")
	}
	events := outbox.Events()
	if len(events) != 1 || events[0].EventName() != "product.removed" {
		t.Errorf("events = %v", events)
	}
	if err := svc.DeleteProduct(ctx, 2); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
