package errors

import (
	"errors"
	"fmt"
	"net/http"

	"pos/domain/product"
	"pos/domain/purchase"
	"pos/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeUnavailable    ErrorCode = "SERVICE_UNAVAILABLE"

	// 业务错误码
	CodeEmptyCart           ErrorCode = "EMPTY_CART"
	CodeProductNotFound     ErrorCode = "PRODUCT_NOT_FOUND"
	CodeProductCodeExists   ErrorCode = "PRODUCT_CODE_EXISTS"
	CodeProductInUse        ErrorCode = "PRODUCT_IN_USE"
	CodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
)

// EmptyCartMessage is the message clients receive for a purchase without items.
const EmptyCartMessage = "Purchase list cannot be empty"

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeEmptyCart:
		return http.StatusBadRequest
	case CodeNotFound, CodeProductNotFound, CodeTransactionNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeProductCodeExists, CodeProductInUse:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 常用错误构造函数

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Unavailable(message string) *AppError {
	return New(CodeUnavailable, message)
}

// 业务错误

func EmptyCart() *AppError {
	return New(CodeEmptyCart, EmptyCartMessage)
}

func ProductNotFound() *AppError {
	return New(CodeProductNotFound, "product not found")
}

func TransactionNotFound() *AppError {
	return New(CodeTransactionNotFound, "transaction not found")
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// 如果不是 AppError，包装为内部错误
	return Wrap(err, CodeInternal, "internal server error")
}

// FromDomainError 将领域错误映射为应用错误
// 按哨兵错误匹配，未识别的错误一律视为内部错误，不向客户端暴露细节
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	// 已经是 AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, purchase.ErrEmptyCart):
		return Wrap(err, CodeEmptyCart, EmptyCartMessage)
	case errors.Is(err, purchase.ErrInvalidItem),
		errors.Is(err, purchase.ErrInvalidTerminal),
		errors.Is(err, product.ErrInvalidCode),
		errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrNegativeAmount):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, product.ErrProductNotFound):
		return Wrap(err, CodeProductNotFound, "product not found")
	case errors.Is(err, product.ErrCodeAlreadyExists):
		return Wrap(err, CodeProductCodeExists, err.Error())
	case errors.Is(err, product.ErrProductInUse):
		return Wrap(err, CodeProductInUse, err.Error())
	case errors.Is(err, purchase.ErrTransactionNotFound):
		return Wrap(err, CodeTransactionNotFound, "transaction not found")
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
