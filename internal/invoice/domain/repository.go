package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	// ListByMember returns the member's invoices in creation order.
	ListByMember(ctx context.Context, db *gorm.DB, memberID snowflake.ID, unpaidOnly bool) ([]*Invoice, error)
	// MarkPaid flips is_paid only when still unpaid; reports whether a row
	// was updated.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	// AddLateFees adds fee to every unpaid invoice of the member past due at
	// the given instant, returning the number of invoices charged.
	AddLateFees(ctx context.Context, db *gorm.DB, memberID snowflake.ID, fee int64, now time.Time) (int64, error)
	// AddLateFeesAll is the sweep across all members.
	AddLateFeesAll(ctx context.Context, db *gorm.DB, fee int64, now time.Time) (int64, error)
}
