/*
Package product 商品目录子领域

Product 是只读于收银流程、只由目录维护的聚合根。
收银时购物车里的商品信息按快照写入交易明细，之后的目录变更不会影响历史交易。
*/
package product

import (
	"strconv"
	"unicode/utf8"

	"pos/domain/shared"
)

// Product 商品聚合根
// 主键由数据库自增生成，写入前 id 为 0
type Product struct {
	id    int64
	code  Code
	name  string
	price shared.Money

	events []shared.DomainEvent
}

// NewProduct 创建新商品
func NewProduct(code, name string, price int64) (*Product, error) {
	codeVO, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, NewInvalidPriceError(price)
	}

	return &Product{
		code:   *codeVO,
		name:   name,
		price:  shared.Yen(price),
		events: make([]shared.DomainEvent, 0),
	}, nil
}

func validateName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return NewInvalidNameError(name)
	}
	return nil
}

// Update 修改商品名称与价格，code 作为外部查找键不可修改
func (p *Product) Update(name string, price int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	if price < 0 {
		return NewInvalidPriceError(price)
	}
	if name == p.name && price == p.price.Amount() {
		return nil
	}

	oldPrice := p.price.Amount()
	p.name = name
	p.price = shared.Yen(price)
	p.recordEvent(NewProductUpdatedEvent(p.ID(), p.name, oldPrice, price))
	return nil
}

// MarkRemoved 记录删除事件，实际删除由仓储完成
func (p *Product) MarkRemoved() {
	p.recordEvent(NewProductRemovedEvent(p.ID(), p.code.Value()))
}

// AssignID 仓储在插入后回填自增主键
// ⚠️ 仅限仓储实现调用
func (p *Product) AssignID(id int64) {
	p.id = id
	p.recordEvent(NewProductRegisteredEvent(p.ID(), p.code.Value(), p.name, p.price.Amount()))
}

// IsNew 尚未写入数据库
func (p *Product) IsNew() bool { return p.id == 0 }

func (p *Product) ID() string {
	if p.id == 0 {
		return ""
	}
	return strconv.FormatInt(p.id, 10)
}
func (p *Product) ProductID() int64    { return p.id }
func (p *Product) Code() Code          { return p.code }
func (p *Product) Name() string        { return p.name }
func (p *Product) Price() shared.Money { return p.price }
func (p *Product) Version() int        { return 0 }

// PullEvents 获取并清空聚合根的事件列表
func (p *Product) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(p.events))
	copy(events, p.events)
	p.events = make([]shared.DomainEvent, 0)
	return events
}

func (p *Product) recordEvent(event shared.DomainEvent) {
	p.events = append(p.events, event)
}

// ReconstructionDTO 商品重建数据传输对象
// ⚠️ 仅应在仓储实现中使用
type ReconstructionDTO struct {
	ID    int64
	Code  string
	Name  string
	Price int64
}

// RebuildFromDTO 从DTO重建Product聚合根，不做校验也不记录事件
func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:     dto.ID,
		code:   Code{value: dto.Code},
		name:   dto.Name,
		price:  shared.Yen(dto.Price),
		events: []shared.DomainEvent{},
	}
}

var _ shared.AggregateRoot = (*Product)(nil)
