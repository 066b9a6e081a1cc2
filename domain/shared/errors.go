/*
Package shared - 领域错误

商品目录与收银交易共用同一种错误结构 DomainError:
  - Err 是哨兵错误，调用方用 errors.Is 判断类别（商品不存在、空购物车 ...）
  - Entity / Field 指明出错的对象，api 层据此生成错误码
  - 堆栈在构造时捕获，只在 5xx 日志里格式化

子领域（product、purchase）定义自己的哨兵，并通过 NewError 构造，
这里只保留跨子领域的三个通用类别。
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// maxStackFrames 日志中保留的最多帧数
const maxStackFrames = 10

// DomainError 带类别、出错对象和发生点堆栈的领域错误
type DomainError struct {
	Err     error
	Entity  string // "product", "transaction", "transaction_detail"
	Field   string // 校验错误对应的请求字段，可为空
	Message string

	pcs []uintptr
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// Stack 按需格式化，过滤 runtime 帧
func (e *DomainError) Stack() []string {
	if len(e.pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(e.pcs)
	out := make([]string, 0, maxStackFrames)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			out = append(out, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(out) >= maxStackFrames {
			return out
		}
	}
}

// NewError 供子领域的 NewXxxError 调用；堆栈从调用 NewXxxError 的位置开始
func NewError(sentinel error, entity, field, message string) *DomainError {
	return newError(4, sentinel, entity, field, message)
}

// skip 计入 runtime.Callers 与 newError 自身
func newError(skip int, sentinel error, entity, field, message string) *DomainError {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return &DomainError{
		Err:     sentinel,
		Entity:  entity,
		Field:   field,
		Message: message,
		pcs:     pcs[:n],
	}
}

func NewNotFoundError(entity string) error {
	return newError(3, ErrNotFound, entity, "", entity+" not found")
}

func NewConflictError(entity, message string) error {
	return newError(3, ErrConflict, entity, "", message)
}

// NewValidationError 请求参数不合法，在任何写入之前返回
func NewValidationError(entity, field, reason string) error {
	return newError(3, ErrInvalidInput, entity, field, reason)
}

// Stacker api 层用 errors.As 提取堆栈
type Stacker interface {
	Stack() []string
}
