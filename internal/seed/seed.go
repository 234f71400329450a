package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/kilimo-labs/sacco/internal/invoice/domain"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	memberdomain "github.com/kilimo-labs/sacco/internal/member/domain"
	saccodomain "github.com/kilimo-labs/sacco/internal/sacco/domain"
	"github.com/kilimo-labs/sacco/pkg/db"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema for development databases where the SQL
// migrations do not apply.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&saccodomain.Sacco{},
		&memberdomain.Member{},
		&invoicedomain.Invoice{},
		&ledgerdomain.LedgerAccount{},
		&ledgerdomain.LedgerEntry{},
		&ledgerdomain.LedgerEntryLine{},
	)
}

// EnsureLedgerAccounts inserts the chart of accounts if any are missing.
// Duplicate-key failures are tolerated so concurrent replicas can boot
// against the same database.
func EnsureLedgerAccounts(conn *gorm.DB, node *snowflake.Node) error {
	ctx := context.Background()

	accounts := []ledgerdomain.LedgerAccount{
		{Code: ledgerdomain.AccountCodeCash, Name: "Cash"},
		{Code: ledgerdomain.AccountCodeMemberWallets, Name: "Member Wallets"},
		{Code: ledgerdomain.AccountCodeProduceRevenue, Name: "Produce Revenue"},
	}

	for _, account := range accounts {
		var count int64
		if err := conn.WithContext(ctx).Model(&ledgerdomain.LedgerAccount{}).
			Where("code = ?", account.Code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		account.ID = node.Generate()
		account.CreatedAt = time.Now().UTC()
		if err := conn.WithContext(ctx).Create(&account).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				continue
			}
			return err
		}
	}
	return nil
}
