package po

import (
	"pos/domain/product"
)

// ProductPO 商品主表 persistence object
type ProductPO struct {
	PrdID int64  `gorm:"column:prd_id;primaryKey;autoIncrement"`
	Code  string `gorm:"column:code;size:25;not null;uniqueIndex:uk_product_code"`
	Name  string `gorm:"column:name;size:50;not null"`
	Price int64  `gorm:"column:price;not null"`
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "product_master"
}

// FromProductDomain Convert domain model to persistence object
func FromProductDomain(p *product.Product) *ProductPO {
	return &ProductPO{
		PrdID: p.ProductID(),
		Code:  p.Code().Value(),
		Name:  p.Name(),
		Price: p.Price().Amount(),
	}
}

// ToDomain Convert persistence object to domain model
func (po *ProductPO) ToDomain() *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:    po.PrdID,
		Code:  po.Code,
		Name:  po.Name,
		Price: po.Price,
	})
}
