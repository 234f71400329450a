package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/kilimo-labs/sacco/internal/clock"
	"github.com/kilimo-labs/sacco/internal/identity"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	ledgerservice "github.com/kilimo-labs/sacco/internal/ledger/service"
	"github.com/kilimo-labs/sacco/internal/member/domain"
	memberrepo "github.com/kilimo-labs/sacco/internal/member/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, ledgerdomain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Member{},
		&ledgerdomain.LedgerAccount{},
		&ledgerdomain.LedgerEntry{},
		&ledgerdomain.LedgerEntryLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ledgerSvc := ledgerservice.NewService(ledgerservice.Params{DB: db, Log: log, GenID: node})

	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Repo:      memberrepo.Provide(),
		LedgerSvc: ledgerSvc,
	})
	return svc, ledgerSvc
}

func TestRegisterStartsWithZeroBalances(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	assert.NotZero(t, member.ID)
	assert.Equal(t, "M-001", member.MemberCode)
	assert.Equal(t, int64(0), member.WalletBalance)
	assert.Equal(t, int64(0), member.ProduceUnits)

	found, err := svc.GetByID(context.Background(), member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)
}

func TestRegisterAllowsDuplicateMemberCodes(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	second, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-2",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), domain.RegisterMemberRequest{Identity: "farmer-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = svc.Register(context.Background(), domain.RegisterMemberRequest{MemberCode: "M-001"})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestDepositCreditsWalletAndPostsLedger(t *testing.T) {
	svc, ledgerSvc := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "farmer-1")
	updated, err := svc.Deposit(ctx, domain.DepositRequest{MemberID: member.ID.String(), Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.WalletBalance)

	cash, err := ledgerSvc.AccountBalance(context.Background(), ledgerdomain.AccountCodeCash)
	require.NoError(t, err)
	assert.Equal(t, int64(30), cash)
}

func TestDepositRequiresMatchingIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "intruder")
	_, err = svc.Deposit(ctx, domain.DepositRequest{MemberID: member.ID.String(), Amount: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidMember)

	refreshed, err := svc.GetByID(context.Background(), member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), refreshed.WalletBalance)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "farmer-1")
	_, err = svc.Deposit(ctx, domain.DepositRequest{MemberID: member.ID.String(), Amount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWithdrawDebitsWallet(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "farmer-1")
	_, err = svc.Deposit(ctx, domain.DepositRequest{MemberID: member.ID.String(), Amount: 50})
	require.NoError(t, err)

	updated, err := svc.Withdraw(ctx, domain.WithdrawRequest{MemberID: member.ID.String(), Amount: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.WalletBalance)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "farmer-1")
	_, err = svc.Deposit(ctx, domain.DepositRequest{MemberID: member.ID.String(), Amount: 10})
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, domain.WithdrawRequest{MemberID: member.ID.String(), Amount: 11})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	refreshed, err := svc.GetByID(context.Background(), member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(10), refreshed.WalletBalance)
}

func TestWithdrawByWrongCallerIsUnauthorized(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "intruder")
	_, err = svc.Withdraw(ctx, domain.WithdrawRequest{MemberID: member.ID.String(), Amount: 5})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdjustUnitsRejectsUnderflow(t *testing.T) {
	svc, _ := newTestService(t)

	member, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "farmer-1")
	_, err = svc.AdjustUnits(ctx, domain.AdjustUnitsRequest{MemberID: member.ID.String(), Units: 1})
	assert.ErrorIs(t, err, domain.ErrUnitsUnderflow)

	units, err := svc.RemainingUnits(context.Background(), member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), units)
}

func TestGetByIDUnknownMember(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFiltersByMemberCode(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Register(context.Background(), domain.RegisterMemberRequest{
			MemberCode: fmt.Sprintf("M-%03d", i),
			Identity:   fmt.Sprintf("farmer-%d", i),
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListMemberRequest{MemberCode: "M-001"})
	require.NoError(t, err)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, "M-001", resp.Members[0].MemberCode)

	all, err := svc.List(context.Background(), domain.ListMemberRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Members, 3)
}
