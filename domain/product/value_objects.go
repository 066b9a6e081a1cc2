package product

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxCodeLength product_master.code 列宽
	MaxCodeLength = 25
	// MaxNameLength product_master.name 列宽
	MaxNameLength = 50
)

// Code Value object - the external lookup key of a product, usually a JAN barcode
type Code struct {
	value string
}

// NewCode Create new Code value object
func NewCode(code string) (*Code, error) {
	code = strings.TrimSpace(code)
	if code == "" || utf8.RuneCountInString(code) > MaxCodeLength {
		return nil, NewInvalidCodeError(code)
	}
	return &Code{value: code}, nil
}

// Value Get code value
func (c Code) Value() string {
	return c.value
}

// Equals Compare if two Code value objects are equal
func (c Code) Equals(other Code) bool {
	return c.value == other.value
}

// String Implement Stringer interface
func (c Code) String() string {
	return c.value
}
