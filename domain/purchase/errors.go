/*
Package purchase - 收银交易领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 判断
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
3. 校验错误在任何写入之前返回，调用方不应重试
*/
package purchase

import (
	"errors"
	"fmt"
	"strconv"

	"pos/domain/shared"
)

var (
	// ErrEmptyCart 购物车为空，拒绝记录交易
	ErrEmptyCart = errors.New("purchase list cannot be empty")

	// ErrInvalidItem 购物车商品快照不合法
	ErrInvalidItem = errors.New("invalid purchase item")

	// ErrInvalidTerminal 员工/门店/终端编码超出列宽
	ErrInvalidTerminal = errors.New("invalid terminal identification")

	// ErrTransactionNotFound 交易未找到
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotPersisted 交易头尚未写入（没有自增主键）
	ErrNotPersisted = errors.New("transaction header has not been persisted")

	// ErrTotalOverflow 合计金额溢出
	ErrTotalOverflow = errors.New("transaction total overflows")
)

func NewEmptyCartError() error {
	return shared.NewError(ErrEmptyCart, "transaction", "items", ErrEmptyCart.Error())
}

func NewInvalidItemError(position int, field, reason string) error {
	return shared.NewError(ErrInvalidItem, "transaction_detail", field, fmt.Sprintf("item %d: %s", position+1, reason))
}

func NewInvalidTerminalError(field string, maxLen int, value string) error {
	return shared.NewError(ErrInvalidTerminal, "transaction", field, fmt.Sprintf("%s must be at most %d characters, got: %q", field, maxLen, value))
}

func NewTransactionNotFoundError(transactionID int64) error {
	return shared.NewError(ErrTransactionNotFound, "transaction", "", "transaction not found: "+strconv.FormatInt(transactionID, 10))
}

func NewTotalOverflowError(position int) error {
	return shared.NewError(ErrTotalOverflow, "transaction", "", fmt.Sprintf("running total overflows at item %d", position+1))
}
