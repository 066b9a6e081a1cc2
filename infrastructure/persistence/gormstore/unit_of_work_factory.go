package gormstore

import (
	"database/sql"

	"pos/domain/shared"
	"pos/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory hands out one UnitOfWork per request; a UnitOfWork is not safe for concurrent use
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
	txOptions   *sql.TxOptions
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config, txOptions *sql.TxOptions) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryConfig: retryConfig,
		txOptions:   txOptions,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	uow.SetTxOptions(f.txOptions)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
