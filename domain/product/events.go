package product

import "time"

// ProductRegisteredEvent 商品登记到目录
type ProductRegisteredEvent struct {
	productID  string
	code       string
	name       string
	price      int64
	occurredOn time.Time
}

func NewProductRegisteredEvent(productID, code, name string, price int64) *ProductRegisteredEvent {
	return &ProductRegisteredEvent{
		productID:  productID,
		code:       code,
		name:       name,
		price:      price,
		occurredOn: time.Now(),
	}
}

func (e *ProductRegisteredEvent) EventName() string      { return "product.registered" }
func (e *ProductRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ProductRegisteredEvent) GetAggregateID() string { return e.productID }
func (e *ProductRegisteredEvent) Payload() map[string]any {
	return map[string]any{"code": e.code, "name": e.name, "price": e.price}
}

// ProductUpdatedEvent 商品名称或价格变更，终端据此刷新本地价目
type ProductUpdatedEvent struct {
	productID  string
	name       string
	oldPrice   int64
	newPrice   int64
	occurredOn time.Time
}

func NewProductUpdatedEvent(productID, name string, oldPrice, newPrice int64) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		productID:  productID,
		name:       name,
		oldPrice:   oldPrice,
		newPrice:   newPrice,
		occurredOn: time.Now(),
	}
}

func (e *ProductUpdatedEvent) EventName() string      { return "product.updated" }
func (e *ProductUpdatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ProductUpdatedEvent) GetAggregateID() string { return e.productID }
func (e *ProductUpdatedEvent) Payload() map[string]any {
	return map[string]any{"name": e.name, "old_price": e.oldPrice, "new_price": e.newPrice}
}

type ProductRemovedEvent struct {
	productID  string
	code       string
	occurredOn time.Time
}

func NewProductRemovedEvent(productID, code string) *ProductRemovedEvent {
	return &ProductRemovedEvent{productID: productID, code: code, occurredOn: time.Now()}
}

func (e *ProductRemovedEvent) EventName() string      { return "product.removed" }
func (e *ProductRemovedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ProductRemovedEvent) GetAggregateID() string { return e.productID }
func (e *ProductRemovedEvent) Payload() map[string]any {
	return map[string]any{"code": e.code}
}
