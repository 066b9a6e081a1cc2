package gormstore

import (
	"context"
	"errors"
	"fmt"

	"pos/domain/product"
	"pos/domain/purchase"
	"pos/domain/shared"
	"pos/infrastructure/persistence"
	"pos/infrastructure/persistence/gormstore/po"
	"pos/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// TransactionRepository GORM implementation of the purchase store
// Header and details are written with separate statements; GORM associations are never used.
type TransactionRepository struct {
	db         *gorm.DB
	translator *specification.GormTranslator
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db, translator: specification.NewGormTranslator()}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *TransactionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// InsertHeader writes the header and assigns the generated TRD_ID
func (r *TransactionRepository) InsertHeader(ctx context.Context, t *purchase.Transaction) error {
	headerPO := po.FromTransactionDomain(t)
	if err := r.getDB(ctx).Create(headerPO).Error; err != nil {
		return fmt.Errorf("insert transaction header: %w", err)
	}
	if headerPO.TrdID == 0 {
		return errors.New("insert transaction header: no generated id returned")
	}
	t.AssignID(headerPO.TrdID)
	return nil
}

// InsertLine writes one detail row; an unknown product id surfaces as product not found
func (r *TransactionRepository) InsertLine(ctx context.Context, transactionID int64, line purchase.Line) error {
	detailPO := po.FromLineDomain(transactionID, line)
	if err := r.getDB(ctx).Omit("Header", "Product").Create(detailPO).Error; err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("insert transaction detail %d: %w", line.Sequence(),
				product.NewProductNotFoundError(line.ProductID()))
		}
		return fmt.Errorf("insert transaction detail %d: %w", line.Sequence(), err)
	}
	return nil
}

// UpdateTotals writes both totals back to the header
func (r *TransactionRepository) UpdateTotals(ctx context.Context, t *purchase.Transaction) error {
	result := r.getDB(ctx).Model(&po.TransactionPO{}).
		Where("trd_id = ?", t.TransactionID()).
		Updates(map[string]any{
			"total_amt":      t.TotalAmount().Amount(),
			"ttl_amt_ex_tax": t.TotalAmountExTax().Amount(),
		})
	if result.Error != nil {
		return fmt.Errorf("update transaction totals: %w", result.Error)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*purchase.Transaction, error) {
	db := r.getDB(ctx)

	var headerPO po.TransactionPO
	if err := db.Where("trd_id = ?", id).Take(&headerPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// 手动查询明细，不使用 Preload，保持聚合边界清晰
	var detailPOs []po.TransactionDetailPO
	if err := db.Where("trd_id = ?", id).Order("dtl_id ASC").Find(&detailPOs).Error; err != nil {
		return nil, err
	}

	return headerPO.ToDomain(detailPOs), nil
}

func (r *TransactionRepository) List(ctx context.Context, offset, limit int) ([]*purchase.Transaction, error) {
	return r.find(r.getDB(ctx), offset, limit)
}

func (r *TransactionRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*purchase.Transaction], offset, limit int) ([]*purchase.Transaction, error) {
	scope, err := r.translator.TransactionScope(spec)
	if err != nil {
		return nil, err
	}
	return r.find(r.getDB(ctx).Scopes(scope), offset, limit)
}

// find loads a page of headers, newest first, then their details in one query
func (r *TransactionRepository) find(db *gorm.DB, offset, limit int) ([]*purchase.Transaction, error) {
	offset, limit = clampPage(offset, limit, purchase.DefaultPageSize, purchase.MaxPageSize)

	var headerPOs []po.TransactionPO
	if err := db.Order("trd_id DESC").Offset(offset).Limit(limit).Find(&headerPOs).Error; err != nil {
		return nil, err
	}
	if len(headerPOs) == 0 {
		return []*purchase.Transaction{}, nil
	}

	ids := make([]int64, len(headerPOs))
	for i := range headerPOs {
		ids[i] = headerPOs[i].TrdID
	}
	var detailPOs []po.TransactionDetailPO
	if err := db.Session(&gorm.Session{NewDB: true}).
		Where("trd_id IN ?", ids).
		Order("trd_id ASC, dtl_id ASC").
		Find(&detailPOs).Error; err != nil {
		return nil, err
	}
	byHeader := make(map[int64][]po.TransactionDetailPO, len(headerPOs))
	for _, d := range detailPOs {
		byHeader[d.TrdID] = append(byHeader[d.TrdID], d)
	}

	transactions := make([]*purchase.Transaction, len(headerPOs))
	for i := range headerPOs {
		transactions[i] = headerPOs[i].ToDomain(byHeader[headerPOs[i].TrdID])
	}
	return transactions, nil
}

// Compile-time interface implementation check
var _ purchase.Repository = (*TransactionRepository)(nil)
