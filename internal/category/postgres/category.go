package postgres

import (
	"github.com/xpensecontrol/xpense/internal/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]*category.Category, error) {
	var categories []*category.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(name string) (*category.Category, error) {
	var cat category.Category
	err := r.db.Where("name = ?", name).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(cat *category.Category) error {
	return r.db.Create(cat).Error
}
