package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sacco is the singleton association record: the pricing and fee terms every
// produce request reads, plus the treasury fed by settled invoices. Terms are
// frozen into an invoice at creation, so later updates here never touch
// invoices that were already issued.
type Sacco struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerIdentity   string       `gorm:"type:text;not null" json:"owner_identity"`
	UnitPrice       int64        `gorm:"not null" json:"unit_price"`
	LateFee         int64        `gorm:"not null" json:"late_fee"`
	OverdueDuration int64        `gorm:"not null" json:"overdue_duration_seconds"`
	TreasuryBalance int64        `gorm:"not null;default:0" json:"treasury_balance"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Sacco) TableName() string { return "saccos" }

// OverdueWindow returns the overdue duration as a time.Duration.
func (s Sacco) OverdueWindow() time.Duration {
	return time.Duration(s.OverdueDuration) * time.Second
}
