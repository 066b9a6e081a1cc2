package purchase

import (
	"pos/domain/purchase"
	"pos/domain/shared"
)

func toItems(items []PurchaseItemRequest) []purchase.Item {
	out := make([]purchase.Item, len(items))
	for i, item := range items {
		out[i] = purchase.Item{
			ProductID: item.ProductID,
			Code:      item.Code,
			Name:      item.Name,
			Price:     item.Price,
		}
	}
	return out
}

func (r PurchaseRequest) terminal() purchase.Terminal {
	return purchase.Terminal{
		EmployeeCode: r.EmployeeCode,
		StoreCode:    r.StoreCode,
		PosNo:        r.TerminalCode,
	}
}

func toPurchaseResponse(t *purchase.Transaction) *PurchaseResponse {
	return &PurchaseResponse{
		Success:          true,
		TransactionID:    t.TransactionID(),
		TotalAmount:      t.TotalAmount().Amount(),
		TotalAmountExTax: t.TotalAmountExTax().Amount(),
		ItemsCount:       t.ItemsCount(),
	}
}

func toTransactionResponse(t *purchase.Transaction) *TransactionResponse {
	lines := t.Lines()
	details := make([]TransactionLineResponse, len(lines))
	for i, line := range lines {
		details[i] = TransactionLineResponse{
			DetailID:  line.Sequence(),
			ProductID: line.ProductID(),
			Code:      line.Code(),
			Name:      line.Name(),
			Price:     line.Price().Amount(),
			TaxCode:   line.TaxCode(),
		}
	}

	terminal := t.Terminal()
	return &TransactionResponse{
		TransactionID:    t.TransactionID(),
		Datetime:         t.RecordedAt(),
		EmployeeCode:     terminal.EmployeeCode,
		StoreCode:        terminal.StoreCode,
		TerminalCode:     terminal.PosNo,
		TotalAmount:      t.TotalAmount().Amount(),
		TotalAmountExTax: t.TotalAmountExTax().Amount(),
		ItemsCount:       t.ItemsCount(),
		Details:          details,
	}
}

func (q ListTransactionsQuery) toSpecification() shared.Specification[*purchase.Transaction] {
	var spec shared.Specification[*purchase.Transaction]
	add := func(s shared.Specification[*purchase.Transaction]) {
		if spec == nil {
			spec = s
			return
		}
		spec = shared.And(spec, s)
	}
	if q.StoreCode != "" {
		add(purchase.NewByStoreSpecification(q.StoreCode, q.TerminalCode))
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		add(purchase.NewByDateRangeSpecification(q.From, q.To))
	}
	return spec
}
