package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Invoice bills a member for produce units taken on credit. Units billed and
// the due time are frozen at creation from the terms in force at that moment;
// the total grows by the current late fee on every sweep pass that finds the
// invoice unpaid and past due. Once paid the invoice is terminal.
type Invoice struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	MemberID    snowflake.ID `gorm:"not null;index" json:"member_id"`
	UnitsBilled int64        `gorm:"not null" json:"units_billed"`
	TotalAmount int64        `gorm:"not null" json:"total_amount"`
	DueAt       time.Time    `gorm:"not null;index" json:"due_at"`
	IsPaid      bool         `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
