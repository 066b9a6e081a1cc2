/*
Package purchase Application Layer - 收银交易记录

RecordPurchase 在一个工作单元内完成全部写入:
交易头(零合计) -> 逐行明细 -> 重新汇总 -> 回写合计 -> outbox 事件 -> 提交。
任何一步失败整体回滚，调用方看不到部分写入，可以安全地重新提交。
服务本身不重试。
*/
package purchase

import (
	"context"
	"time"

	"pos/domain/purchase"
	"pos/domain/shared"
	"pos/pkg/logger"
	"pos/pkg/metrics"

	"go.uber.org/zap"
)

// ApplicationService Purchase application service
type ApplicationService struct {
	transactionRepo purchase.Repository
	uowFactory      shared.UnitOfWorkFactory
	defaults        purchase.Terminal
	metrics         *metrics.Metrics
	now             func() time.Time
}

// Option customises the service
type Option func(*ApplicationService)

// WithDefaultTerminal overrides the sentinel codes used for omitted terminal fields
func WithDefaultTerminal(t purchase.Terminal) Option {
	return func(s *ApplicationService) {
		s.defaults = t.WithDefaults(purchase.DefaultTerminal())
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ApplicationService) { s.metrics = m }
}

// WithClock replaces time.Now for the transaction timestamp
func WithClock(now func() time.Time) Option {
	return func(s *ApplicationService) { s.now = now }
}

// NewApplicationService Create purchase application service
func NewApplicationService(transactionRepo purchase.Repository, uowFactory shared.UnitOfWorkFactory, opts ...Option) *ApplicationService {
	s := &ApplicationService{
		transactionRepo: transactionRepo,
		uowFactory:      uowFactory,
		defaults:        purchase.DefaultTerminal(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordPurchase 记录一笔交易
func (s *ApplicationService) RecordPurchase(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error) {
	log := logger.Ctx(ctx)

	items := toItems(req.Items)
	terminal := req.terminal().WithDefaults(s.defaults)
	recordedAt := s.now()

	// 空购物车与非法条目在任何写入之前被拒绝
	tx, err := purchase.NewTransaction(items, terminal, recordedAt)
	if err != nil {
		s.metrics.ObservePurchase(metrics.PurchaseRejected, 0, 0)
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		// 工作单元重试时每次尝试都从干净的聚合开始：
		// 上一次回滚的主键、结算状态和已取走的事件不能带入本次
		attempt, err := purchase.NewTransaction(items, terminal, recordedAt)
		if err != nil {
			return err
		}
		if err := s.transactionRepo.InsertHeader(ctx, attempt); err != nil {
			return err
		}
		for _, line := range attempt.Lines() {
			if err := s.transactionRepo.InsertLine(ctx, attempt.TransactionID(), line); err != nil {
				return err
			}
		}
		if err := attempt.Settle(); err != nil {
			return err
		}
		if err := s.transactionRepo.UpdateTotals(ctx, attempt); err != nil {
			return err
		}
		uow.RegisterNew(attempt)
		tx = attempt
		return nil
	})
	if err != nil {
		s.metrics.ObservePurchase(metrics.PurchaseFailed, 0, 0)
		log.Warn("Purchase rolled back",
			zap.Int("items_count", len(req.Items)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.ObservePurchase(metrics.PurchaseRecorded, tx.ItemsCount(), tx.TotalAmount().Amount())
	log.Info("Purchase recorded",
		zap.Int64("transaction_id", tx.TransactionID()),
		zap.Int64("total_amount", tx.TotalAmount().Amount()),
		zap.Int("items_count", tx.ItemsCount()),
		zap.String("store_code", tx.Terminal().StoreCode),
		zap.String("terminal_code", tx.Terminal().PosNo),
	)
	return toPurchaseResponse(tx), nil
}

// GetTransaction 交易头与明细；不存在返回 ErrTransactionNotFound
func (s *ApplicationService) GetTransaction(ctx context.Context, id int64) (*TransactionResponse, error) {
	t, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, purchase.NewTransactionNotFoundError(id)
	}
	return toTransactionResponse(t), nil
}

// ListTransactions 最新的交易在前
func (s *ApplicationService) ListTransactions(ctx context.Context, q ListTransactionsQuery) ([]*TransactionResponse, error) {
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, shared.NewValidationError("transaction", "to", "to must not be before from")
	}

	var (
		transactions []*purchase.Transaction
		err          error
	)
	if spec := q.toSpecification(); spec != nil {
		transactions, err = s.transactionRepo.FindBySpecification(ctx, spec, q.Offset, q.Limit)
	} else {
		transactions, err = s.transactionRepo.List(ctx, q.Offset, q.Limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		out[i] = toTransactionResponse(t)
	}
	return out, nil
}
