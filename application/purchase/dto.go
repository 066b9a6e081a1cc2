package purchase

import "time"

// PurchaseRequest 终端提交的购物车。商品信息为扫码时的快照，服务端不回查商品目录。
type PurchaseRequest struct {
	Items        []PurchaseItemRequest `json:"items" binding:"dive"`
	EmployeeCode string                `json:"employee_code" binding:"omitempty,max=10"`
	StoreCode    string                `json:"store_code" binding:"omitempty,max=5"`
	TerminalCode string                `json:"terminal_code" binding:"omitempty,max=3"`
}

// PurchaseItemRequest 购物车中的一件商品
type PurchaseItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required,min=1"`
	Code      string `json:"code" binding:"required,max=25"`
	Name      string `json:"name" binding:"required,max=50"`
	Price     int64  `json:"price" binding:"min=0"`
}

// PurchaseResponse 记录成功后的汇总
type PurchaseResponse struct {
	Success          bool  `json:"success"`
	TransactionID    int64 `json:"transaction_id"`
	TotalAmount      int64 `json:"total_amount"`
	TotalAmountExTax int64 `json:"total_amount_ex_tax"`
	ItemsCount       int   `json:"items_count"`
}

// TransactionResponse 交易头及其明细
type TransactionResponse struct {
	TransactionID    int64                     `json:"transaction_id"`
	Datetime         time.Time                 `json:"datetime"`
	EmployeeCode     string                    `json:"employee_code"`
	StoreCode        string                    `json:"store_code"`
	TerminalCode     string                    `json:"terminal_code"`
	TotalAmount      int64                     `json:"total_amount"`
	TotalAmountExTax int64                     `json:"total_amount_ex_tax"`
	ItemsCount       int                       `json:"items_count"`
	Details          []TransactionLineResponse `json:"details"`
}

// TransactionLineResponse 交易明细
type TransactionLineResponse struct {
	DetailID  int    `json:"detail_id"`
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	TaxCode   string `json:"tax_code"`
}

// ListTransactionsQuery 交易列表查询条件，零值表示不过滤
type ListTransactionsQuery struct {
	Offset       int
	Limit        int
	StoreCode    string
	TerminalCode string
	From         time.Time
	To           time.Time
}
