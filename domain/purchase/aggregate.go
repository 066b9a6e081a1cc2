/*
Package purchase 收银交易子领域

一笔交易由一个交易头（Transaction）和按购物车顺序编号的明细行（Line）组成。
明细行保存商品在扫码时刻的快照（ID、编码、名称、价格），与商品目录之后的变更无关。

记录流程（由应用层在同一个工作单元内编排）:
 1. NewTransaction 校验购物车，空购物车在任何写入之前被拒绝
 2. 仓储以临时的零合计插入交易头并回填自增主键（AssignID）
 3. 逐行插入明细，DTL_ID = 位置 + 1
 4. Settle 按明细重新汇总合计，仓储把合计写回交易头
 5. 工作单元提交；任何一步失败都整体回滚
*/
package purchase

import (
	"strconv"
	"time"
	"unicode/utf8"

	"pos/domain/shared"
)

const (
	DefaultEmployeeCode = "999999999"
	DefaultStoreCode    = "30"
	DefaultPosNo        = "90"

	// TaxCodeStandard 固定税码。税额计算不在本系统范围内，税前合计与含税合计相同。
	TaxCodeStandard = "10"

	MaxEmployeeCodeLength = 10
	MaxStoreCodeLength    = 5
	MaxPosNoLength        = 3
	MaxItemCodeLength     = 25
	MaxItemNameLength     = 50
)

// Terminal 交易发生的员工、门店与收银机
type Terminal struct {
	EmployeeCode string
	StoreCode    string
	PosNo        string
}

// DefaultTerminal 未提供编码时使用的哨兵值
func DefaultTerminal() Terminal {
	return Terminal{
		EmployeeCode: DefaultEmployeeCode,
		StoreCode:    DefaultStoreCode,
		PosNo:        DefaultPosNo,
	}
}

// WithDefaults 用 defaults 填充空字段
func (t Terminal) WithDefaults(defaults Terminal) Terminal {
	if t.EmployeeCode == "" {
		t.EmployeeCode = defaults.EmployeeCode
	}
	if t.StoreCode == "" {
		t.StoreCode = defaults.StoreCode
	}
	if t.PosNo == "" {
		t.PosNo = defaults.PosNo
	}
	return t
}

func (t Terminal) validate() error {
	if utf8.RuneCountInString(t.EmployeeCode) > MaxEmployeeCodeLength {
		return NewInvalidTerminalError("employee_code", MaxEmployeeCodeLength, t.EmployeeCode)
	}
	if utf8.RuneCountInString(t.StoreCode) > MaxStoreCodeLength {
		return NewInvalidTerminalError("store_code", MaxStoreCodeLength, t.StoreCode)
	}
	if utf8.RuneCountInString(t.PosNo) > MaxPosNoLength {
		return NewInvalidTerminalError("terminal_code", MaxPosNoLength, t.PosNo)
	}
	return nil
}

// Item 终端扫码得到的商品快照，价格以终端提交的为准
type Item struct {
	ProductID int64
	Code      string
	Name      string
	Price     int64
}

func (i Item) validate(position int) error {
	switch {
	case i.ProductID <= 0:
		return NewInvalidItemError(position, "product_id", "product id must be positive")
	case i.Code == "" || utf8.RuneCountInString(i.Code) > MaxItemCodeLength:
		return NewInvalidItemError(position, "code", "code must be 1-25 characters")
	case i.Name == "" || utf8.RuneCountInString(i.Name) > MaxItemNameLength:
		return NewInvalidItemError(position, "name", "name must be 1-50 characters")
	case i.Price < 0:
		return NewInvalidItemError(position, "price", "price cannot be negative")
	}
	return nil
}

// Line 交易明细行 - 聚合内实体，只能经由 Transaction 访问
type Line struct {
	sequence  int
	productID int64
	code      string
	name      string
	price     shared.Money
	taxCode   string
}

func (l Line) Sequence() int       { return l.sequence }
func (l Line) ProductID() int64    { return l.productID }
func (l Line) Code() string        { return l.code }
func (l Line) Name() string        { return l.name }
func (l Line) Price() shared.Money { return l.price }
func (l Line) TaxCode() string     { return l.taxCode }

// Transaction 交易聚合根
type Transaction struct {
	id               int64
	recordedAt       time.Time
	terminal         Terminal
	lines            []Line
	totalAmount      shared.Money
	totalAmountExTax shared.Money
	settled          bool

	events []shared.DomainEvent
}

// NewTransaction 校验购物车并构建交易，合计在 Settle 之前为零
func NewTransaction(items []Item, terminal Terminal, recordedAt time.Time) (*Transaction, error) {
	if len(items) == 0 {
		return nil, NewEmptyCartError()
	}
	if err := terminal.validate(); err != nil {
		return nil, err
	}

	lines := make([]Line, len(items))
	for i, item := range items {
		if err := item.validate(i); err != nil {
			return nil, err
		}
		lines[i] = Line{
			sequence:  i + 1,
			productID: item.ProductID,
			code:      item.Code,
			name:      item.Name,
			price:     shared.Yen(item.Price),
			taxCode:   TaxCodeStandard,
		}
	}

	return &Transaction{
		recordedAt:       recordedAt,
		terminal:         terminal,
		lines:            lines,
		totalAmount:      shared.Yen(0),
		totalAmountExTax: shared.Yen(0),
		events:           make([]shared.DomainEvent, 0),
	}, nil
}

// AssignID 仓储插入交易头后回填自增主键
// ⚠️ 仅限仓储实现调用
func (t *Transaction) AssignID(id int64) {
	t.id = id
}

// Settle 按明细重新汇总合计并记录 purchase.recorded 事件
// 必须在交易头写入之后调用；重复调用不会重复记录事件
func (t *Transaction) Settle() error {
	if t.id == 0 {
		return ErrNotPersisted
	}
	if t.settled {
		return nil
	}

	total := shared.Yen(0)
	for i, line := range t.lines {
		sum, err := total.Add(line.price)
		if err != nil {
			return NewTotalOverflowError(i)
		}
		total = *sum
	}

	t.totalAmount = total
	t.totalAmountExTax = total
	t.settled = true
	t.recordEvent(NewPurchaseRecordedEvent(t))
	return nil
}

func (t *Transaction) ID() string {
	if t.id == 0 {
		return ""
	}
	return strconv.FormatInt(t.id, 10)
}
func (t *Transaction) TransactionID() int64           { return t.id }
func (t *Transaction) RecordedAt() time.Time          { return t.recordedAt }
func (t *Transaction) Terminal() Terminal             { return t.terminal }
func (t *Transaction) TotalAmount() shared.Money      { return t.totalAmount }
func (t *Transaction) TotalAmountExTax() shared.Money { return t.totalAmountExTax }
func (t *Transaction) ItemsCount() int                { return len(t.lines) }
func (t *Transaction) IsSettled() bool                { return t.settled }
func (t *Transaction) Version() int                   { return 0 }

// Lines 返回明细副本，按 Sequence 升序
func (t *Transaction) Lines() []Line {
	lines := make([]Line, len(t.lines))
	copy(lines, t.lines)
	return lines
}

func (t *Transaction) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(t.events))
	copy(events, t.events)
	t.events = make([]shared.DomainEvent, 0)
	return events
}

func (t *Transaction) recordEvent(event shared.DomainEvent) {
	t.events = append(t.events, event)
}

// ReconstructionDTO 交易重建数据传输对象
// ⚠️ 仅应在仓储实现中使用
type ReconstructionDTO struct {
	ID               int64
	RecordedAt       time.Time
	Terminal         Terminal
	Lines            []Line
	TotalAmount      int64
	TotalAmountExTax int64
}

// LineReconstructionDTO 明细行重建数据传输对象
type LineReconstructionDTO struct {
	Sequence  int
	ProductID int64
	Code      string
	Name      string
	Price     int64
	TaxCode   string
}

func RebuildLineFromDTO(dto LineReconstructionDTO) Line {
	return Line{
		sequence:  dto.Sequence,
		productID: dto.ProductID,
		code:      dto.Code,
		name:      dto.Name,
		price:     shared.Yen(dto.Price),
		taxCode:   dto.TaxCode,
	}
}

// RebuildFromDTO 从数据库重建已提交的交易，视为已结算
func RebuildFromDTO(dto ReconstructionDTO) *Transaction {
	return &Transaction{
		id:               dto.ID,
		recordedAt:       dto.RecordedAt,
		terminal:         dto.Terminal,
		lines:            dto.Lines,
		totalAmount:      shared.Yen(dto.TotalAmount),
		totalAmountExTax: shared.Yen(dto.TotalAmountExTax),
		settled:          true,
		events:           []shared.DomainEvent{},
	}
}

var _ shared.AggregateRoot = (*Transaction)(nil)
