/*
Package product 定义商品领域错误。
*/
package product

import (
	"errors"
	"fmt"
	"strconv"

	"pos/domain/shared"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidCode       = errors.New("product code must be 1-25 characters")
	ErrInvalidName       = errors.New("product name must be 1-50 characters")
	ErrInvalidPrice      = errors.New("product price cannot be negative")
	ErrCodeAlreadyExists = errors.New("product code already exists")
	ErrProductInUse      = errors.New("product is referenced by recorded transactions")
)

func NewProductNotFoundError(productID int64) error {
	return shared.NewError(ErrProductNotFound, "product", "", "product not found: "+strconv.FormatInt(productID, 10))
}

func NewInvalidCodeError(code string) error {
	return shared.NewError(ErrInvalidCode, "product", "code", fmt.Sprintf("product code must be 1-%d characters, got: %q", MaxCodeLength, code))
}

func NewInvalidNameError(name string) error {
	return shared.NewError(ErrInvalidName, "product", "name", fmt.Sprintf("product name must be 1-%d characters, got: %q", MaxNameLength, name))
}

func NewInvalidPriceError(price int64) error {
	return shared.NewError(ErrInvalidPrice, "product", "price", fmt.Sprintf("product price cannot be negative, got: %d", price))
}

func NewCodeAlreadyExistsError(code string) error {
	return shared.NewError(ErrCodeAlreadyExists, "product", "code", "product code already exists: "+code)
}

func NewProductInUseError(productID int64) error {
	return shared.NewError(ErrProductInUse, "product", "", "product "+strconv.FormatInt(productID, 10)+" is referenced by recorded transactions")
}
