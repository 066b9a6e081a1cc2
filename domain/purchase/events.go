package purchase

import "time"

// PurchaseRecordedEvent 交易已结算（合计写回交易头），随交易同一事务写入 outbox
type PurchaseRecordedEvent struct {
	transactionID string
	storeCode     string
	posNo         string
	employeeCode  string
	totalAmount   int64
	itemsCount    int
	occurredOn    time.Time
}

func NewPurchaseRecordedEvent(t *Transaction) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		transactionID: t.ID(),
		storeCode:     t.Terminal().StoreCode,
		posNo:         t.Terminal().PosNo,
		employeeCode:  t.Terminal().EmployeeCode,
		totalAmount:   t.TotalAmount().Amount(),
		itemsCount:    t.ItemsCount(),
		occurredOn:    time.Now(),
	}
}

func (e *PurchaseRecordedEvent) EventName() string      { return "purchase.recorded" }
func (e *PurchaseRecordedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *PurchaseRecordedEvent) GetAggregateID() string { return e.transactionID }
func (e *PurchaseRecordedEvent) TotalAmount() int64     { return e.totalAmount }
func (e *PurchaseRecordedEvent) ItemsCount() int        { return e.itemsCount }

func (e *PurchaseRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"transaction_id": e.transactionID,
		"store_code":     e.storeCode,
		"terminal_code":  e.posNo,
		"employee_code":  e.employeeCode,
		"total_amount":   e.totalAmount,
		"items_count":    e.itemsCount,
	}
}
