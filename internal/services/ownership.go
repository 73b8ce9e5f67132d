package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

// owned is implemented by every user-scoped model.
type owned interface {
	*models.Category | *models.Transaction | *models.Budget
}

func ownerOf[T owned](record T) string {
	switch r := any(record).(type) {
	case *models.Category:
		return r.UserID
	case *models.Transaction:
		return r.UserID
	case *models.Budget:
		return r.UserID
	}
	return ""
}

// loadOwned loads record by id and checks it belongs to userID. A missing
// record yields notFound, someone else's record yields FORBIDDEN.
func loadOwned[T owned](db *gorm.DB, record T, id, userID string, notFound *apperrors.AppError) error {
	if !uuid.IsValid(id) {
		return notFound
	}
	if err := db.First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if ownerOf(record) != userID {
		return apperrors.ErrForbidden
	}
	return nil
}

// requireUsableCategory checks that categoryID, when set, names a live
// category owned by userID.
func requireUsableCategory(db *gorm.DB, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if !uuid.IsValid(*categoryID) {
		return apperrors.ErrInvalidCategory
	}

	var count int64
	err := db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", *categoryID, userID).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrInvalidCategory
	}
	return nil
}

// withDeletedCategory preloads Category including soft-deleted rows.
func withDeletedCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}
