package shared

import (
	"errors"
	"math"
)

// DefaultCurrency 门店结算币种，金额以最小货币单位（日元）存储
const DefaultCurrency = "JPY"

var (
	ErrCurrencyMismatch = errors.New("cannot combine money with different currencies")
	ErrAmountOverflow   = errors.New("money amount overflows int64")
	ErrNegativeAmount   = errors.New("money amount cannot be negative")
)

// Money 值对象 - 表示金额
type Money struct {
	amount   int64  // 最小货币单位
	currency string // 货币代码
}

// NewMoney 创建新的Money值对象
func NewMoney(amount int64, currency string) *Money {
	return &Money{
		amount:   amount,
		currency: currency,
	}
}

// Yen 以默认币种创建金额
func Yen(amount int64) Money {
	return Money{amount: amount, currency: DefaultCurrency}
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// Add 金额相加，返回新的Money值对象；溢出时返回 ErrAmountOverflow
func (m Money) Add(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, ErrCurrencyMismatch
	}
	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return nil, ErrAmountOverflow
	}

	return &Money{
		amount:   m.amount + other.amount,
		currency: m.currency,
	}, nil
}

func (m Money) IsNegative() bool {
	return m.amount < 0
}

// Equals 比较两个Money值对象是否相等
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
