package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos/domain/product"
	"pos/domain/purchase"
	"pos/infrastructure/persistence/mocks"
	"pos/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type harness struct {
	products     *mocks.MockProductRepository
	transactions *mocks.MockTransactionRepository
	outbox       *mocks.MockOutbox
	uow          *mocks.MockUnitOfWork
	metrics      *metrics.Metrics
	service      *ApplicationService
}

var fixedNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func newHarness(opts ...Option) *harness {
	h := &harness{
		products:     mocks.NewMockProductRepository(),
		transactions: mocks.NewMockTransactionRepository(),
		outbox:       mocks.NewMockOutbox(),
		metrics:      metrics.New(),
	}
	h.products.Seed(
		product.ReconstructionDTO{ID: 1, Code: "4589901001018", Name: "ボールペン", Price: 180},
		product.ReconstructionDTO{ID: 2, Code: "4589901001025", Name: "ノート", Price: 450},
	)
	h.transactions.Products = h.products
	h.uow = mocks.NewMockUnitOfWork(h.outbox, h.transactions)
	opts = append([]Option{WithMetrics(h.metrics), WithClock(func() time.Time { return fixedNow })}, opts...)
	h.service = NewApplicationService(h.transactions, mocks.NewMockUnitOfWorkFactory(h.uow), opts...)
	return h
}

func pen() PurchaseItemRequest {
	return PurchaseItemRequest{ProductID: 1, Code: "4589901001018", Name: "ボールペン", Price: 180}
}

func note() PurchaseItemRequest {
	return PurchaseItemRequest{ProductID: 2, Code: "4589901001025", Name: "ノート", Price: 450}
}

func TestRecordPurchase_TwoItems(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	resp, err := h.service.RecordPurchase(ctx, PurchaseRequest{Items: []PurchaseItemRequest{pen(), note()}})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	want := PurchaseResponse{Success: true, TransactionID: resp.TransactionID, TotalAmount: 630, TotalAmountExTax: 630, ItemsCount: 2}
	if *resp != want || resp.TransactionID == 0 {
		t.Errorf("resp = %+v, want %+v", *resp, want)
	}

	stored, err := h.service.GetTransaction(ctx, resp.TransactionID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if stored.EmployeeCode != "999999999" || stored.StoreCode != "30" || stored.TerminalCode != "90" {
		t.Errorf("terminal defaults not applied: %+v", stored)
	}
	if !stored.Datetime.Equal(fixedNow) {
		t.Errorf("datetime = %v, want %v", stored.Datetime, fixedNow)
	}
	if len(stored.Details) != 2 || stored.Details[0].DetailID != 1 || stored.Details[1].DetailID != 2 {
		t.Fatalf("details = %+v", stored.Details)
	}
	if stored.Details[1].Price != 450 || stored.Details[1].TaxCode != purchase.TaxCodeStandard {
		t.Errorf("detail 2 = %+v", stored.Details[1])
	}

	events := h.outbox.Events()
	if len(events) != 1 || events[0].EventName() != "purchase.recorded" {
		t.Fatalf("outbox = %v", events)
	}
	if got := testutil.ToFloat64(h.metrics.Purchases.WithLabelValues(metrics.PurchaseRecorded)); got != 1 {
		t.Errorf("recorded metric = %v", got)
	}
}

func TestRecordPurchase_RepeatedItem(t *testing.T) {
	h := newHarness()
	resp, err := h.service.RecordPurchase(context.Background(), PurchaseRequest{
		Items: []PurchaseItemRequest{pen(), pen(), pen()},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalAmount != 540 || resp.TotalAmountExTax != 540 || resp.ItemsCount != 3 {
		t.Errorf("resp = %+v", resp)
	}
	if h.transactions.LineCount() != 3 {
		t.Errorf("lines = %d, want 3", h.transactions.LineCount())
	}
}

func TestRecordPurchase_EmptyCart(t *testing.T) {
	h := newHarness()
	resp, err := h.service.RecordPurchase(context.Background(), PurchaseRequest{})
	if !errors.Is(err, purchase.ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if resp != nil {
		t.Error("no response expected for an empty cart")
	}
	if h.uow.Executions != 0 {
		t.Error("unit of work must not start for an empty cart")
	}
	if h.transactions.Count() != 0 || len(h.outbox.Events()) != 0 {
		t.Error("empty cart wrote data")
	}
	if got := testutil.ToFloat64(h.metrics.Purchases.WithLabelValues(metrics.PurchaseRejected)); got != 1 {
		t.Errorf("rejected metric = %v", got)
	}
}

func TestRecordPurchase_InvalidInputWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		req  PurchaseRequest
		want error
	}{
		{"negative price", PurchaseRequest{Items: []PurchaseItemRequest{{ProductID: 1, Code: "C", Name: "N", Price: -1}}}, purchase.ErrInvalidItem},
		{"missing code", PurchaseRequest{Items: []PurchaseItemRequest{{ProductID: 1, Name: "N", Price: 1}}}, purchase.ErrInvalidItem},
		{"store code too long", PurchaseRequest{Items: []PurchaseItemRequest{pen()}, StoreCode: "123456"}, purchase.ErrInvalidTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.service.RecordPurchase(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if h.transactions.Count() != 0 {
				t.Error("invalid request wrote a header")
			}
		})
	}
}

func TestRecordPurchase_FailureRollsBack(t *testing.T) {
	tests := []struct {
		name   string
		inject func(h *harness)
	}{
		{"after header before first detail", func(h *harness) { h.transactions.FailOnLine = 1 }},
		{"on second detail", func(h *harness) { h.transactions.FailOnLine = 2 }},
		{"on total update", func(h *harness) { h.transactions.UpdateTotalsErr = mocks.ErrInjected }},
		{"on outbox write", func(h *harness) { h.outbox.SaveErr = mocks.ErrInjected }},
		{"on header insert", func(h *harness) { h.transactions.InsertHeaderErr = mocks.ErrInjected }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			tt.inject(h)

			_, err := h.service.RecordPurchase(context.Background(), PurchaseRequest{Items: []PurchaseItemRequest{pen(), note()}})
			if !errors.Is(err, mocks.ErrInjected) {
				t.Fatalf("err = %v, want injected failure", err)
			}
			if h.transactions.Count() != 0 || h.transactions.LineCount() != 0 {
				t.Errorf("partial write survived: headers=%d lines=%d", h.transactions.Count(), h.transactions.LineCount())
			}
			if len(h.outbox.Events()) != 0 {
				t.Error("event saved for a rolled back purchase")
			}
			if got := testutil.ToFloat64(h.metrics.Purchases.WithLabelValues(metrics.PurchaseFailed)); got != 1 {
				t.Errorf("failed metric = %v", got)
			}
		})
	}
}

func TestRecordPurchase_UnknownProductRollsBack(t *testing.T) {
	h := newHarness()
	ghost := PurchaseItemRequest{ProductID: 99, Code: "0000", Name: "幽霊", Price: 1}
	_, err := h.service.RecordPurchase(context.Background(), PurchaseRequest{Items: []PurchaseItemRequest{pen(), ghost}})
	if !errors.Is(err, product.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if h.transactions.Count() != 0 {
		t.Error("header survived a failed detail insert")
	}
}

func TestRecordPurchase_SameCartTwice(t *testing.T) {
	h := newHarness()
	req := PurchaseRequest{Items: []PurchaseItemRequest{pen(), note()}}
	first, err := h.service.RecordPurchase(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.service.RecordPurchase(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.TransactionID == second.TransactionID {
		t.Error("duplicate submission must create a second transaction")
	}
	if h.transactions.Count() != 2 {
		t.Errorf("headers = %d, want 2", h.transactions.Count())
	}
}

func TestRecordPurchase_ExplicitAndConfiguredTerminal(t *testing.T) {
	h := newHarness(WithDefaultTerminal(purchase.Terminal{StoreCode: "12"}))
	ctx := context.Background()

	resp, err := h.service.RecordPurchase(ctx, PurchaseRequest{
		Items:        []PurchaseItemRequest{pen()},
		EmployeeCode: "E001",
		TerminalCode: "01",
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := h.service.GetTransaction(ctx, resp.TransactionID)
	if got.EmployeeCode != "E001" || got.StoreCode != "12" || got.TerminalCode != "01" {
		t.Errorf("terminal = %s/%s/%s", got.EmployeeCode, got.StoreCode, got.TerminalCode)
	}
}

func TestGetTransaction_NotFound(t *testing.T) {
	h := newHarness()
	_, err := h.service.GetTransaction(context.Background(), 404)
	if !errors.Is(err, purchase.ErrTransactionNotFound) {
		t.Errorf("err = %v, want ErrTransactionNotFound", err)
	}
}

func TestListTransactions(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	for _, store := range []string{"30", "31", "30"} {
		if _, err := h.service.RecordPurchase(ctx, PurchaseRequest{Items: []PurchaseItemRequest{pen()}, StoreCode: store}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := h.service.ListTransactions(ctx, ListTransactionsQuery{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].TransactionID < all[1].TransactionID {
		t.Fatalf("expected 3 transactions newest first, got %+v", all)
	}

	store30, err := h.service.ListTransactions(ctx, ListTransactionsQuery{StoreCode: "30"})
	if err != nil || len(store30) != 2 {
		t.Errorf("store 30 = %d, %v", len(store30), err)
	}

	_, err = h.service.ListTransactions(ctx, ListTransactionsQuery{From: fixedNow, To: fixedNow.Add(-time.Hour)})
	if err == nil {
		t.Error("inverted date range accepted")
	}
}
