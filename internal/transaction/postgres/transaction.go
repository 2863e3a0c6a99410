package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpensecontrol/xpense/internal/transaction"
	"gorm.io/gorm"
)

// TransactionRepository implements transaction.RepositoryAPI using GORM.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.RepositoryAPI {
	return &TransactionRepository{db: db}
}

// Create persists a new transaction, assigning its opaque id.
func (r *TransactionRepository) Create(t *transaction.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByID(id string) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := r.db.Preload("Category").Where("id = ?", id).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListForOwner returns the owner's transactions inside the half-open
// [from, to) window, newest first.
func (r *TransactionRepository) ListForOwner(ownerID int64, from, to time.Time) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	err := r.db.Preload("Category").
		Where("owner_id = ? AND date >= ? AND date < ?", ownerID, from, to).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) Update(t *transaction.Transaction) error {
	t.UpdatedAt = time.Now()
	return r.db.Save(t).Error
}

func (r *TransactionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&transaction.Transaction{}).Error
}
