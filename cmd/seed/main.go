// Command seed 向商品主表写入 5 件测试商品
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	catalogapp "pos/application/catalog"
	"pos/cmd"
	"pos/config"
	"pos/domain/product"
	"pos/infrastructure/persistence/gormstore"
	"pos/infrastructure/persistence/retry"
	"pos/pkg/logger"

	"go.uber.org/zap"
)

var testProducts = []catalogapp.CreateProductRequest{
	{Code: "4589901001018", Name: "テクワン・消せるボールペン 黒", Price: price(180)},
	{Code: "4589901001025", Name: "テクワン・スーパーノート B5 5冊パック", Price: price(450)},
	{Code: "4589901001032", Name: "ハイブリッドカッター Pro", Price: price(800)},
	{Code: "4589901001049", Name: "スマート付箋 5色ミックス", Price: price(320)},
	{Code: "4589901001056", Name: "疲れない椅子 Alpha (ポップアップ限定)", Price: price(12000)},
}

func price(v int64) *int64 { return &v }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		reset      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&reset, "reset", false, "Delete existing products that no transaction references before seeding")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := cmd.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer gormstore.Close(db)

	service := catalogapp.NewApplicationService(
		gormstore.NewProductRepository(db),
		gormstore.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg.Database.Retry), nil),
	)
	created, err := seed(ctx, service, reset)
	if err != nil {
		return err
	}

	all, err := service.ListProducts(ctx, catalogapp.ListProductsQuery{Limit: product.MaxPageSize})
	if err != nil {
		return err
	}
	fmt.Printf("%d products inserted, %d in catalog\n", created, len(all))
	fmt.Printf("%-10s%-20s%-40s%10s\n", "PRD_ID", "CODE", "NAME", "PRICE")
	for _, p := range all {
		fmt.Printf("%-10d%-20s%-40s%9d円\n", p.ProductID, p.Code, p.Name, p.Price)
	}
	return nil
}

// seed 已有商品时不写入，除非 reset；被交易引用的商品无法删除，保留原样
func seed(ctx context.Context, service *catalogapp.ApplicationService, reset bool) (int, error) {
	existing, err := service.ListProducts(ctx, catalogapp.ListProductsQuery{Limit: product.MaxPageSize})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !reset {
		logger.Info("Catalog already has products; run with -reset to replace them", zap.Int("count", len(existing)))
		return 0, nil
	}

	for _, p := range existing {
		err := service.DeleteProduct(ctx, p.ProductID)
		switch {
		case errors.Is(err, product.ErrProductInUse):
			logger.Warn("Product kept, referenced by transactions", zap.String("code", p.Code))
		case err != nil:
			return 0, fmt.Errorf("delete product %s: %w", p.Code, err)
		}
	}

	created := 0
	for _, req := range testProducts {
		_, err := service.CreateProduct(ctx, req)
		switch {
		case errors.Is(err, product.ErrCodeAlreadyExists):
			continue
		case err != nil:
			return created, fmt.Errorf("create product %s: %w", req.Code, err)
		}
		created++
	}
	return created, nil
}
