package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sacco *Sacco) error
	Find(ctx context.Context, db *gorm.DB) (*Sacco, error)
	UpdateTerms(ctx context.Context, db *gorm.DB, unitPrice, lateFee int64) error
	CreditTreasury(ctx context.Context, db *gorm.DB, amount int64) error
}
