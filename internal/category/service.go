package category

import (
	"log/slog"
	"strings"

	"github.com/xpensecontrol/xpense/internal"
)

type RepositoryAPI interface {
	GetAll() ([]*Category, error)
	GetByName(name string) (*Category, error)
	Create(category *Category) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories() ([]*Category, error) {
	categories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	if categories == nil {
		categories = []*Category{}
	}
	return categories, nil
}

// GetByName resolves a category by its exact display name. A miss is the
// caller's NotFound, never a silent creation.
func (s *Service) GetByName(name string) (*Category, error) {
	cat, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Error("failed to look up category", "name", name, "error", err)
		return nil, internal.NewInternalError("failed to look up category", err)
	}
	if cat == nil {
		return nil, internal.ErrCategoryNotFound
	}
	return cat, nil
}

func (s *Service) CreateCategory(dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)

	existing, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Error("failed to check category existence", "name", name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if existing != nil {
		return nil, internal.ErrCategoryExists
	}

	cat := &Category{Name: name}
	if err := s.repo.Create(cat); err != nil {
		s.logger.Error("failed to create category", "name", name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", cat.ID, "name", cat.Name)
	return cat, nil
}
