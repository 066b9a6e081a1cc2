package gormstore

import (
	"context"
	"errors"
	"fmt"

	"pos/domain/product"
	"pos/domain/shared"
	"pos/infrastructure/persistence"
	"pos/infrastructure/persistence/gormstore/po"
	"pos/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// ProductRepository GORM implementation of the catalog store
type ProductRepository struct {
	db         *gorm.DB
	translator *specification.GormTranslator
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, translator: specification.NewGormTranslator()}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts new products and updates name/price of existing ones
func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	db := r.getDB(ctx)
	productPO := po.FromProductDomain(p)

	if p.IsNew() {
		if err := db.Create(productPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return product.NewCodeAlreadyExistsError(productPO.Code)
			}
			return err
		}
		p.AssignID(productPO.PrdID)
		return nil
	}

	result := db.Model(&po.ProductPO{}).
		Where("prd_id = ?", productPO.PrdID).
		Updates(map[string]any{
			"name":  productPO.Name,
			"price": productPO.Price,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL 对值未变化的行返回 0，需要再确认一次是否存在
		var count int64
		if err := db.Model(&po.ProductPO{}).Where("prd_id = ?", productPO.PrdID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return product.NewProductNotFoundError(productPO.PrdID)
		}
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	var productPO po.ProductPO
	err := r.getDB(ctx).Where("prd_id = ?", id).Take(&productPO).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return productPO.ToDomain(), nil
}

func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*product.Product, error) {
	var productPO po.ProductPO
	err := r.getDB(ctx).Where("code = ?", code).Take(&productPO).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return productPO.ToDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*product.Product, error) {
	return r.find(r.getDB(ctx), offset, limit)
}

func (r *ProductRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*product.Product], offset, limit int) ([]*product.Product, error) {
	scope, err := r.translator.ProductScope(spec)
	if err != nil {
		return nil, err
	}
	return r.find(r.getDB(ctx).Scopes(scope), offset, limit)
}

func (r *ProductRepository) find(db *gorm.DB, offset, limit int) ([]*product.Product, error) {
	offset, limit = clampPage(offset, limit, product.DefaultPageSize, product.MaxPageSize)

	var productPOs []po.ProductPO
	if err := db.Order("prd_id ASC").Offset(offset).Limit(limit).Find(&productPOs).Error; err != nil {
		return nil, err
	}

	products := make([]*product.Product, len(productPOs))
	for i := range productPOs {
		products[i] = productPOs[i].ToDomain()
	}
	return products, nil
}

// Remove physically deletes the product; rows referenced by transaction details are refused
func (r *ProductRepository) Remove(ctx context.Context, id int64) error {
	db := r.getDB(ctx)

	var refs int64
	if err := db.Model(&po.TransactionDetailPO{}).Where("prd_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return product.NewProductInUseError(id)
	}

	result := db.Where("prd_id = ?", id).Delete(&po.ProductPO{})
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return product.NewProductInUseError(id)
		}
		return fmt.Errorf("delete product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return product.NewProductNotFoundError(id)
	}
	return nil
}

// Compile-time interface implementation check
var _ product.Repository = (*ProductRepository)(nil)
