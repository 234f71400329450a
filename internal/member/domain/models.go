package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Member is one cooperative member: a principal identity, a wallet balance in
// minor units and a running produce-unit count. Invoices reference the member
// by ID; the member row never embeds them.
type Member struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	MemberCode    string            `gorm:"type:text;not null;index" json:"member_code"`
	Identity      string            `gorm:"type:text;not null;index" json:"identity"`
	WalletBalance int64             `gorm:"not null;default:0" json:"wallet_balance"`
	ProduceUnits  int64             `gorm:"not null;default:0" json:"produce_units"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }
