package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LedgerEntryDirection represents debit or credit postings.
type LedgerEntryDirection string

const (
	LedgerEntryDirectionDebit  LedgerEntryDirection = "debit"
	LedgerEntryDirectionCredit LedgerEntryDirection = "credit"
)

type LedgerSourceType string

const (
	SourceTypeDeposit       LedgerSourceType = "deposit"        // member funds their wallet
	SourceTypeWalletPayment LedgerSourceType = "wallet_payment" // invoice settled from wallet balance
	SourceTypeDirectPayment LedgerSourceType = "direct_payment" // invoice settled with external funds
	SourceTypeWithdrawal    LedgerSourceType = "withdrawal"     // wallet funds transferred out
)

type LedgerAccountCode string

const (
	// Assets
	AccountCodeCash LedgerAccountCode = "cash"

	// Liabilities
	AccountCodeMemberWallets LedgerAccountCode = "member_wallets"

	// Revenue. Credits to this account are the treasury: the sum of all
	// settled invoice amounts, including overpayment on direct settlement.
	AccountCodeProduceRevenue LedgerAccountCode = "produce_revenue"
)

// NormalSide reports the direction that increases the account: debit for
// assets, credit for liabilities and revenue.
func (c LedgerAccountCode) NormalSide() LedgerEntryDirection {
	if c == AccountCodeCash {
		return LedgerEntryDirectionDebit
	}
	return LedgerEntryDirectionCredit
}

// LedgerAccount defines a chart-of-accounts entry.
type LedgerAccount struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	Code      LedgerAccountCode `gorm:"type:text;not null;uniqueIndex:ux_ledger_accounts_code"`
	Name      string            `gorm:"type:text;not null"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerAccount) TableName() string { return "ledger_accounts" }

// LedgerEntry captures the immutable header for a financial event.
type LedgerEntry struct {
	ID         snowflake.ID     `gorm:"primaryKey"`
	SourceType LedgerSourceType `gorm:"type:text;not null;index"`
	SourceID   snowflake.ID     `gorm:"not null;index"`
	OccurredAt time.Time        `gorm:"not null"`
	CreatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerEntry) TableName() string { return "ledger_entries" }

// LedgerEntryLine is a double-entry posting line.
type LedgerEntryLine struct {
	ID            snowflake.ID         `gorm:"primaryKey"`
	LedgerEntryID snowflake.ID         `gorm:"not null;index"`
	AccountCode   LedgerAccountCode    `gorm:"type:text;not null;index"`
	Direction     LedgerEntryDirection `gorm:"type:text;not null"`
	Amount        int64                `gorm:"not null"`
	CreatedAt     time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerEntryLine) TableName() string { return "ledger_entry_lines" }
