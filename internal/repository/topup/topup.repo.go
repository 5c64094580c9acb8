package topup

import (
	"context"
	"decor-wallet/internal/common/models"
	database "decor-wallet/internal/pkg/db"
	"time"
)

type IRepository interface {
	Create(ctx context.Context, topup *models.WalletTopup) error
	FindByOrderRef(ctx context.Context, orderRef string) (*models.WalletTopup, error)
	FindByCustomer(ctx context.Context, customerID string, after *time.Time, limit int) ([]models.WalletTopup, error)
	UpdateStatus(ctx context.Context, orderRef string, updates map[string]any) error
	AppendSignal(ctx context.Context, orderRef string, signals models.JSONB) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, topup *models.WalletTopup) error {
	return r.db.WithContext(ctx).Create(topup).Error
}

func (r *Repository) FindByOrderRef(ctx context.Context, orderRef string) (*models.WalletTopup, error) {
	var topup models.WalletTopup
	err := r.db.WithContext(ctx).Where("order_ref = ?", orderRef).First(&topup).Error
	if err != nil {
		return nil, err
	}
	return &topup, nil
}

// FindByCustomer pages a customer's attempts newest-first; after is the
// decoded cursor boundary.
func (r *Repository) FindByCustomer(ctx context.Context, customerID string, after *time.Time, limit int) ([]models.WalletTopup, error) {
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at DESC").Limit(limit)
	if after != nil {
		query = query.Where("created_at < ?", *after)
	}

	var topups []models.WalletTopup
	if err := query.Find(&topups).Error; err != nil {
		return nil, err
	}
	return topups, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, orderRef string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.WalletTopup{}).Where("order_ref = ?", orderRef).Updates(updates).Error
}

// AppendSignal replaces the signal log column; the service keeps the full
// log in the session and writes it out whole.
func (r *Repository) AppendSignal(ctx context.Context, orderRef string, signals models.JSONB) error {
	return r.db.WithContext(ctx).Model(&models.WalletTopup{}).Where("order_ref = ?", orderRef).Update("signals", signals).Error
}
