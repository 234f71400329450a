package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Service records balanced double-entry postings. CreateEntry takes the
// caller's transaction handle so a posting commits or rolls back together
// with the balance mutation that produced it.
type Service interface {
	CreateEntry(ctx context.Context, tx *gorm.DB, sourceType LedgerSourceType, sourceID snowflake.ID, occurredAt time.Time, lines []LedgerEntryLine) error
	AccountBalance(ctx context.Context, code LedgerAccountCode) (int64, error)
}

var (
	ErrInvalidSourceType = errors.New("invalid_source_type")
	ErrInvalidSourceID   = errors.New("invalid_source_id")
	ErrInvalidOccurredAt = errors.New("invalid_occurred_at")
	ErrInvalidAccount    = errors.New("invalid_account")
	ErrInvalidDirection  = errors.New("invalid_direction")
	ErrInvalidLineAmount = errors.New("invalid_line_amount")
	ErrInvalidEntryLines = errors.New("invalid_entry_lines")
	ErrUnbalancedEntry   = errors.New("unbalanced_entry")
)
