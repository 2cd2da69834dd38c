package addresses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
)

// Repository manages a profile's address book.
type Repository interface {
	// ListByProfile returns the profile's addresses, default first.
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.OrderInfo, error)
	// FindForProfile loads one address and enforces ownership.
	FindForProfile(ctx context.Context, id, profileID uuid.UUID) (*models.OrderInfo, error)
	// FindDefault returns the profile's default address, or nil when the
	// book is empty.
	FindDefault(ctx context.Context, profileID uuid.UUID) (*models.OrderInfo, error)
	Create(ctx context.Context, address *models.OrderInfo) error
	// SetDefault swaps the default flag to the given address in one
	// transaction, keeping at most one default per profile.
	SetDefault(ctx context.Context, id, profileID uuid.UUID) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.OrderInfo, error) {
	var addresses []models.OrderInfo
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("default_address DESC, created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *repository) FindForProfile(ctx context.Context, id, profileID uuid.UUID) (*models.OrderInfo, error) {
	var address models.OrderInfo
	err := r.db.WithContext(ctx).
		First(&address, "id = ? AND profile_id = ?", id, profileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, err
	}
	return &address, nil
}

func (r *repository) FindDefault(ctx context.Context, profileID uuid.UUID) (*models.OrderInfo, error) {
	var address models.OrderInfo
	err := r.db.WithContext(ctx).
		First(&address, "profile_id = ? AND default_address = ?", profileID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *repository) Create(ctx context.Context, address *models.OrderInfo) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *repository) SetDefault(ctx context.Context, id, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var address models.OrderInfo
		if err := tx.First(&address, "id = ? AND profile_id = ?", id, profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return err
		}

		err := tx.Model(&models.OrderInfo{}).
			Where("profile_id = ? AND default_address = ?", profileID, true).
			Update("default_address", false).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.OrderInfo{}).
			Where("id = ?", id).
			Update("default_address", true).Error
	})
}
