package repository

import (
	"context"

	"github.com/kilimo-labs/sacco/internal/sacco/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sacco *domain.Sacco) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO saccos (id, owner_identity, unit_price, late_fee, overdue_duration, treasury_balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sacco.ID,
		sacco.OwnerIdentity,
		sacco.UnitPrice,
		sacco.LateFee,
		sacco.OverdueDuration,
		sacco.TreasuryBalance,
		sacco.CreatedAt,
		sacco.UpdatedAt,
	).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB) (*domain.Sacco, error) {
	var sacco domain.Sacco
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_identity, unit_price, late_fee, overdue_duration, treasury_balance, created_at, updated_at
		 FROM saccos ORDER BY created_at ASC LIMIT 1`,
	).Scan(&sacco).Error
	if err != nil {
		return nil, err
	}
	if sacco.ID == 0 {
		return nil, nil
	}
	return &sacco, nil
}

func (r *repo) UpdateTerms(ctx context.Context, db *gorm.DB, unitPrice, lateFee int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE saccos SET unit_price = ?, late_fee = ?, updated_at = CURRENT_TIMESTAMP`,
		unitPrice,
		lateFee,
	).Error
}

func (r *repo) CreditTreasury(ctx context.Context, db *gorm.DB, amount int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE saccos SET treasury_balance = treasury_balance + ?, updated_at = CURRENT_TIMESTAMP`,
		amount,
	).Error
}
