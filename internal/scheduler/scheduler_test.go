package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/kilimo-labs/sacco/internal/clock"
	"github.com/kilimo-labs/sacco/internal/identity"
	invoicedomain "github.com/kilimo-labs/sacco/internal/invoice/domain"
	invoicerepo "github.com/kilimo-labs/sacco/internal/invoice/repository"
	invoiceservice "github.com/kilimo-labs/sacco/internal/invoice/service"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	ledgerservice "github.com/kilimo-labs/sacco/internal/ledger/service"
	memberdomain "github.com/kilimo-labs/sacco/internal/member/domain"
	memberrepo "github.com/kilimo-labs/sacco/internal/member/repository"
	memberservice "github.com/kilimo-labs/sacco/internal/member/service"
	saccodomain "github.com/kilimo-labs/sacco/internal/sacco/domain"
	saccorepo "github.com/kilimo-labs/sacco/internal/sacco/repository"
	saccoservice "github.com/kilimo-labs/sacco/internal/sacco/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sweepFixture struct {
	clk        *clock.FakeClock
	saccoSvc   saccodomain.Service
	memberSvc  memberdomain.Service
	invoiceSvc invoicedomain.Service
	scheduler  *Scheduler
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&saccodomain.Sacco{},
		&memberdomain.Member{},
		&invoicedomain.Invoice{},
		&ledgerdomain.LedgerAccount{},
		&ledgerdomain.LedgerEntry{},
		&ledgerdomain.LedgerEntryLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ledgerSvc := ledgerservice.NewService(ledgerservice.Params{DB: db, Log: log, GenID: node})
	saccoSvc := saccoservice.New(saccoservice.Params{DB: db, Log: log, GenID: node, Repo: saccorepo.Provide()})
	memberSvc := memberservice.New(memberservice.Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Repo:      memberrepo.Provide(),
		LedgerSvc: ledgerSvc,
	})
	invoiceSvc := invoiceservice.New(invoiceservice.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      clk,
		Repo:       invoicerepo.Provide(),
		MemberRepo: memberrepo.Provide(),
		SaccoRepo:  saccorepo.Provide(),
		LedgerSvc:  ledgerSvc,
	})

	sched, err := New(Params{
		Log:        log,
		Clock:      clk,
		InvoiceSvc: invoiceSvc,
		Config:     Config{Interval: time.Hour, Timeout: time.Minute, Enabled: true},
	})
	require.NoError(t, err)

	return &sweepFixture{
		clk:        clk,
		saccoSvc:   saccoSvc,
		memberSvc:  memberSvc,
		invoiceSvc: invoiceSvc,
		scheduler:  sched,
	}
}

func TestRunSweepChargesOverdueInvoices(t *testing.T) {
	f := newSweepFixture(t)

	_, err := f.saccoSvc.Initialize(context.Background(), saccodomain.InitializeRequest{
		OwnerIdentity:   "chair",
		UnitPrice:       10,
		LateFee:         5,
		OverdueDuration: 100,
	})
	require.NoError(t, err)

	member, err := f.memberSvc.Register(context.Background(), memberdomain.RegisterMemberRequest{
		MemberCode: "M-001",
		Identity:   "farmer-1",
	})
	require.NoError(t, err)

	ctx := identity.WithCaller(context.Background(), "farmer-1")
	invoice, err := f.invoiceSvc.RequestProduce(ctx, invoicedomain.RequestProduceRequest{
		MemberID: member.ID.String(),
		Units:    5,
	})
	require.NoError(t, err)

	f.clk.Advance(101 * time.Second)
	f.scheduler.RunSweep(context.Background())

	refreshed, err := f.invoiceSvc.GetByID(context.Background(), invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(55), refreshed.TotalAmount)

	// Every pass charges again while the invoice stays unpaid.
	f.scheduler.RunSweep(context.Background())
	refreshed, err = f.invoiceSvc.GetByID(context.Background(), invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(60), refreshed.TotalAmount)
}

func TestRunSweepBeforeInitializeIsNoop(t *testing.T) {
	f := newSweepFixture(t)

	// Must not panic or error-loop when no sacco record exists.
	f.scheduler.RunSweep(context.Background())
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Hour, cfg.Interval)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.False(t, cfg.Enabled)
}
