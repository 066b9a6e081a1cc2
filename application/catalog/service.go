/*
Package catalog Application Layer - 商品目录用例编排

读取直接走仓储；写入在工作单元内完成，聚合事件随同一事务写入 outbox。
*/
package catalog

import (
	"context"

	"pos/domain/product"
	"pos/domain/shared"
	"pos/pkg/logger"

	"go.uber.org/zap"
)

// ApplicationService Catalog application service
type ApplicationService struct {
	productRepo          product.Repository
	productDomainService *product.DomainService
	uowFactory           shared.UnitOfWorkFactory
}

// NewApplicationService Create catalog application service
func NewApplicationService(productRepo product.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		productRepo:          productRepo,
		productDomainService: product.NewDomainService(productRepo),
		uowFactory:           uowFactory,
	}
}

// GetProduct 按 ID 查询；不存在返回 ErrProductNotFound
func (s *ApplicationService) GetProduct(ctx context.Context, id int64) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.NewProductNotFoundError(id)
	}
	return toProductResponse(p), nil
}

// GetProductByCode 扫码查询
func (s *ApplicationService) GetProductByCode(ctx context.Context, code string) (*ProductResponse, error) {
	p, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}
	return toProductResponse(p), nil
}

// ListProducts 分页查询，带过滤条件时走规约
func (s *ApplicationService) ListProducts(ctx context.Context, q ListProductsQuery) ([]*ProductResponse, error) {
	var (
		products []*product.Product
		err      error
	)
	if q.filtered() {
		products, err = s.productRepo.FindBySpecification(ctx, q.toSpecification(), q.Offset, q.Limit)
	} else {
		products, err = s.productRepo.List(ctx, q.Offset, q.Limit)
	}
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// CreateProduct 新增商品
func (s *ApplicationService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	var price int64
	if req.Price != nil {
		price = *req.Price
	}
	p, err := product.NewProduct(req.Code, req.Name, price)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.productDomainService.EnsureCodeAvailable(ctx, p.Code().Value()); err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("Product registered",
		zap.Int64("product_id", p.ProductID()),
		zap.String("code", p.Code().Value()),
	)
	return toProductResponse(p), nil
}

// UpdateProduct 修改名称与价格。历史交易明细保存的是快照，不受影响。
func (s *ApplicationService) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	var price int64
	if req.Price != nil {
		price = *req.Price
	}

	var p *product.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return product.NewProductNotFoundError(id)
		}
		if err := p.Update(req.Name, price); err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// DeleteProduct 物理删除；已被交易明细引用的商品不可删除
func (s *ApplicationService) DeleteProduct(ctx context.Context, id int64) error {
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		p, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return product.NewProductNotFoundError(id)
		}
		if err := s.productRepo.Remove(ctx, id); err != nil {
			return err
		}
		p.MarkRemoved()
		uow.RegisterRemoved(p)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Ctx(ctx).Info("Product removed", zap.Int64("product_id", id))
	return nil
}
