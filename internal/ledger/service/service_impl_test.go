package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (ledgerdomain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ledgerdomain.LedgerAccount{},
		&ledgerdomain.LedgerEntry{},
		&ledgerdomain.LedgerEntryLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(Params{DB: db, Log: zap.NewNop(), GenID: node}), node
}

func TestCreateEntryAndBalance(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := svc.CreateEntry(ctx, nil, ledgerdomain.SourceTypeDeposit, node.Generate(), now, []ledgerdomain.LedgerEntryLine{
		{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: 30},
		{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: 30},
	})
	require.NoError(t, err)

	wallets, err := svc.AccountBalance(ctx, ledgerdomain.AccountCodeMemberWallets)
	require.NoError(t, err)
	assert.Equal(t, int64(30), wallets)

	// Cash is debit-normal, so the deposit grows it too.
	cash, err := svc.AccountBalance(ctx, ledgerdomain.AccountCodeCash)
	require.NoError(t, err)
	assert.Equal(t, int64(30), cash)
}

func TestAccountBalanceNormalSide(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := svc.CreateEntry(ctx, nil, ledgerdomain.SourceTypeDeposit, node.Generate(), now, []ledgerdomain.LedgerEntryLine{
		{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: 50},
		{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: 50},
	})
	require.NoError(t, err)

	err = svc.CreateEntry(ctx, nil, ledgerdomain.SourceTypeWithdrawal, node.Generate(), now, []ledgerdomain.LedgerEntryLine{
		{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: 20},
		{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: 20},
	})
	require.NoError(t, err)

	cash, err := svc.AccountBalance(ctx, ledgerdomain.AccountCodeCash)
	require.NoError(t, err)
	assert.Equal(t, int64(30), cash)

	wallets, err := svc.AccountBalance(ctx, ledgerdomain.AccountCodeMemberWallets)
	require.NoError(t, err)
	assert.Equal(t, int64(30), wallets)
}

func TestCreateEntryRejectsUnbalancedLines(t *testing.T) {
	svc, node := newTestService(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := svc.CreateEntry(context.Background(), nil, ledgerdomain.SourceTypeDeposit, node.Generate(), now, []ledgerdomain.LedgerEntryLine{
		{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: 30},
		{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: 10},
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrUnbalancedEntry)

	balance, err := svc.AccountBalance(context.Background(), ledgerdomain.AccountCodeCash)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestCreateEntryValidatesSource(t *testing.T) {
	svc, node := newTestService(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lines := []ledgerdomain.LedgerEntryLine{
		{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: 5},
		{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: 5},
	}

	err := svc.CreateEntry(context.Background(), nil, "", node.Generate(), now, lines)
	assert.ErrorIs(t, err, ledgerdomain.ErrInvalidSourceType)

	err = svc.CreateEntry(context.Background(), nil, ledgerdomain.SourceTypeDeposit, 0, now, lines)
	assert.ErrorIs(t, err, ledgerdomain.ErrInvalidSourceID)

	err = svc.CreateEntry(context.Background(), nil, ledgerdomain.SourceTypeDeposit, node.Generate(), time.Time{}, lines)
	assert.ErrorIs(t, err, ledgerdomain.ErrInvalidOccurredAt)
}

func TestCreateEntryRollsBackWithCallerTransaction(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ledgerdomain.LedgerAccount{},
		&ledgerdomain.LedgerEntry{},
		&ledgerdomain.LedgerEntryLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc := NewService(Params{DB: db, Log: zap.NewNop(), GenID: node})

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	boom := fmt.Errorf("boom")

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := svc.CreateEntry(ctx, tx, ledgerdomain.SourceTypeDeposit, node.Generate(), now, []ledgerdomain.LedgerEntryLine{
			{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: 30},
			{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: 30},
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	balance, err := svc.AccountBalance(ctx, ledgerdomain.AccountCodeMemberWallets)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
