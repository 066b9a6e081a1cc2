package po

import (
	"time"

	"pos/domain/purchase"
)

// TransactionPO 交易头 persistence object
type TransactionPO struct {
	TrdID       int64     `gorm:"column:trd_id;primaryKey;autoIncrement"`
	Datetime    time.Time `gorm:"column:datetime;not null;index:idx_transactions_datetime"`
	EmpCd       string    `gorm:"column:emp_cd;size:10"`
	StoreCd     string    `gorm:"column:store_cd;size:5;index:idx_transactions_store"`
	PosNo       string    `gorm:"column:pos_no;size:3;index:idx_transactions_store"`
	TotalAmt    int64     `gorm:"column:total_amt;not null;default:0"`
	TtlAmtExTax int64     `gorm:"column:ttl_amt_ex_tax;not null;default:0"`
}

// TableName Specify table name
func (TransactionPO) TableName() string {
	return "transactions"
}

// TransactionDetailPO 交易明细 persistence object
// Header and Product are declared only so that AutoMigrate creates the two
// foreign keys (NO ACTION on both sides). They are never loaded or saved
// through GORM associations.
type TransactionDetailPO struct {
	TrdID    int64  `gorm:"column:trd_id;primaryKey;autoIncrement:false"`
	DtlID    int    `gorm:"column:dtl_id;primaryKey;autoIncrement:false"`
	PrdID    int64  `gorm:"column:prd_id;not null;index:idx_transaction_details_prd"`
	PrdCode  string `gorm:"column:prd_code;size:25;not null"`
	PrdName  string `gorm:"column:prd_name;size:50;not null"`
	PrdPrice int64  `gorm:"column:prd_price;not null"`
	TaxCd    string `gorm:"column:tax_cd;size:2"`

	Header  *TransactionPO `gorm:"foreignKey:TrdID;references:TrdID;constraint:OnUpdate:NO ACTION,OnDelete:NO ACTION" json:"-"`
	Product *ProductPO     `gorm:"foreignKey:PrdID;references:PrdID;constraint:OnUpdate:NO ACTION,OnDelete:NO ACTION" json:"-"`
}

// TableName Specify table name
func (TransactionDetailPO) TableName() string {
	return "transaction_details"
}

// FromTransactionDomain Convert header to persistence object; totals are taken as they are now
func FromTransactionDomain(t *purchase.Transaction) *TransactionPO {
	terminal := t.Terminal()
	return &TransactionPO{
		TrdID:       t.TransactionID(),
		Datetime:    t.RecordedAt(),
		EmpCd:       terminal.EmployeeCode,
		StoreCd:     terminal.StoreCode,
		PosNo:       terminal.PosNo,
		TotalAmt:    t.TotalAmount().Amount(),
		TtlAmtExTax: t.TotalAmountExTax().Amount(),
	}
}

// FromLineDomain Convert one detail line to persistence object
func FromLineDomain(transactionID int64, line purchase.Line) *TransactionDetailPO {
	return &TransactionDetailPO{
		TrdID:    transactionID,
		DtlID:    line.Sequence(),
		PrdID:    line.ProductID(),
		PrdCode:  line.Code(),
		PrdName:  line.Name(),
		PrdPrice: line.Price().Amount(),
		TaxCd:    line.TaxCode(),
	}
}

// ToDomain Convert header and its details (ordered by dtl_id) to domain model
func (po *TransactionPO) ToDomain(details []TransactionDetailPO) *purchase.Transaction {
	lines := make([]purchase.Line, len(details))
	for i, d := range details {
		lines[i] = purchase.RebuildLineFromDTO(purchase.LineReconstructionDTO{
			Sequence:  d.DtlID,
			ProductID: d.PrdID,
			Code:      d.PrdCode,
			Name:      d.PrdName,
			Price:     d.PrdPrice,
			TaxCode:   d.TaxCd,
		})
	}

	return purchase.RebuildFromDTO(purchase.ReconstructionDTO{
		ID:         po.TrdID,
		RecordedAt: po.Datetime,
		Terminal: purchase.Terminal{
			EmployeeCode: po.EmpCd,
			StoreCode:    po.StoreCd,
			PosNo:        po.PosNo,
		},
		Lines:            lines,
		TotalAmount:      po.TotalAmt,
		TotalAmountExTax: po.TtlAmtExTax,
	})
}
