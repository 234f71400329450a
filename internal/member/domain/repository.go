package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Member, error)
	List(ctx context.Context, db *gorm.DB, filter ListMemberFilter, page pagination.Pagination) ([]*Member, error)
	// DebitWallet subtracts amount only when the balance covers it; reports
	// whether a row was updated.
	DebitWallet(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) (bool, error)
	CreditWallet(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) error
	// AddProduceUnits applies a signed delta, refusing to drive the count
	// negative; reports whether a row was updated.
	AddProduceUnits(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64) (bool, error)
}
