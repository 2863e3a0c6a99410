package transaction

import (
	"time"

	"github.com/xpensecontrol/xpense/internal/category"
	"github.com/xpensecontrol/xpense/internal/report"
)

// Type is the direction of a money movement. Value stays positive; the
// sign is always carried here.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single dated money movement owned by a user. The ID is
// an opaque string assigned by the persistence layer at creation.
type Transaction struct {
	ID          string             `json:"id" gorm:"primaryKey"`
	Description string             `json:"description" gorm:"not null"`
	Value       float64            `json:"value" gorm:"not null"`
	Type        Type               `json:"type" gorm:"not null"`
	CategoryID  *int64             `json:"-" gorm:"column:category_id"`
	Category    *category.Category `json:"category" gorm:"foreignKey:CategoryID"`
	Date        time.Time          `json:"date" gorm:"not null"`
	OwnerID     int64              `json:"owner_id" gorm:"column:owner_id;not null"`
	CreatedAt   time.Time          `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time          `json:"updated_at" gorm:"column:updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// CategoryName tolerates orphaned records whose category was lost.
func (t *Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

// ToReportEntries converts storage models into the flat shape the
// aggregation engine consumes.
func ToReportEntries(transactions []*Transaction) []report.Transaction {
	entries := make([]report.Transaction, len(transactions))
	for i, t := range transactions {
		entries[i] = report.Transaction{
			ID:          t.ID,
			Description: t.Description,
			Value:       t.Value,
			Type:        report.TxType(t.Type),
			Category:    t.CategoryName(),
			Date:        t.Date,
		}
	}
	return entries
}
