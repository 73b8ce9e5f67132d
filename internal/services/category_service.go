package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// nameTaken reports whether userID has a live category called name, other
// than excludeID.
func (s *categoryService) nameTaken(userID, name, excludeID string) (bool, error) {
	q := s.db.Model(&models.Category{}).Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID, name, icon string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	taken, err := s.nameTaken(userID, name, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   strings.TrimSpace(icon),
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated, name-ordered list of categories
// for a user. includeDeleted adds logically-deleted categories.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest, includeDeleted bool) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	db := s.db
	if includeDeleted {
		db = db.Unscoped()
	}

	var totalItems int64
	if err := db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := db.Where("user_id = ?", userID).
		Order("name ASC").
		Scopes(pagination.Paginate(page)).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a live category owned by userID.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := loadOwned(s.db, &category, categoryID, userID, apperrors.ErrCategoryNotFound); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames or re-icons a category. The owner is never changed.
func (s *categoryService) UpdateCategory(userID, categoryID string, name, icon *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
		}
		taken, err := s.nameTaken(userID, trimmed, category.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategory
		}
		updates["name"] = trimmed
	}
	if icon != nil {
		updates["icon"] = strings.TrimSpace(*icon)
	}

	if len(updates) == 0 {
		return category, nil
	}
	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetCategoryByID(userID, categoryID)
}

// DeleteCategory logically deletes a category. Transactions and budgets keep
// their reference and still render it.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RestoreCategory clears the deletion marker. A live category with the same
// name blocks the restore.
func (s *categoryService) RestoreCategory(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := loadOwned(s.db.Unscoped(), &category, categoryID, userID, apperrors.ErrCategoryNotFound); err != nil {
		return nil, err
	}
	if !category.IsDeleted() {
		return nil, apperrors.ErrCategoryNotDeleted
	}

	taken, err := s.nameTaken(userID, category.Name, category.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	if err := s.db.Unscoped().Model(&category).Update("deleted_at", nil).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetCategoryByID(userID, categoryID)
}
