package category

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xpensecontrol/xpense/internal"
)

// Category is a named grouping label attached to transactions. Categories
// are managed separately from the transaction write path, which only ever
// looks them up by name.
type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CreateCategoryDTO is the request payload for creating a category.
type CreateCategoryDTO struct {
	Name string `json:"name"`
}

func (dto CreateCategoryDTO) Validate() *internal.AppError {
	// Length limits count characters, not bytes.
	name := strings.TrimSpace(dto.Name)
	if utf8.RuneCountInString(name) < 2 {
		return internal.NewValidationFieldErrors([]internal.ValidationError{{
			Field:   "name",
			Message: "category name must have at least 2 characters",
			Code:    string(internal.ErrCodeInvalidCategory),
		}})
	}
	if utf8.RuneCountInString(name) > 50 {
		return internal.NewValidationFieldErrors([]internal.ValidationError{{
			Field:   "name",
			Message: "category name must have at most 50 characters",
			Code:    string(internal.ErrCodeInvalidCategory),
		}})
	}
	return nil
}
