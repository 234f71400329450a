package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/clock"
	"github.com/kilimo-labs/sacco/internal/identity"
	"github.com/kilimo-labs/sacco/internal/invoice/domain"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	memberdomain "github.com/kilimo-labs/sacco/internal/member/domain"
	saccodomain "github.com/kilimo-labs/sacco/internal/sacco/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	MemberRepo memberdomain.Repository
	SaccoRepo  saccodomain.Repository
	LedgerSvc  ledgerdomain.Service
}

// Service orchestrates the invoice lifecycle. Every public operation runs in
// one database transaction, so a failed precondition leaves no partial writes.
type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	memberRepo memberdomain.Repository
	saccoRepo  saccodomain.Repository
	ledgerSvc  ledgerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		memberRepo: p.MemberRepo,
		saccoRepo:  p.SaccoRepo,
		ledgerSvc:  p.LedgerSvc,
	}
}

func (s *Service) RequestProduce(ctx context.Context, req domain.RequestProduceRequest) (domain.Invoice, error) {
	// Zero-unit requests are accepted: they produce a zero-amount invoice.
	if req.Units < 0 {
		return domain.Invoice{}, domain.ErrInvalidUnits
	}

	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.authorizedMember(ctx, tx, memberID)
		if err != nil {
			return err
		}

		sacco, err := s.saccoRepo.Find(ctx, tx)
		if err != nil {
			return err
		}
		if sacco == nil {
			return saccodomain.ErrNotInitialized
		}

		total, err := checkedMul(req.Units, sacco.UnitPrice)
		if err != nil {
			return err
		}
		if member.ProduceUnits > math.MaxInt64-req.Units {
			return domain.ErrAmountOverflow
		}

		if _, err := s.memberRepo.AddProduceUnits(ctx, tx, memberID, req.Units); err != nil {
			return err
		}

		now := s.clock.Now()
		invoice = domain.Invoice{
			ID:          s.genID.Generate(),
			MemberID:    memberID,
			UnitsBilled: req.Units,
			TotalAmount: total,
			DueAt:       now.Add(sacco.OverdueWindow()),
			IsPaid:      false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("produce requested",
		zap.String("member_id", invoice.MemberID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64("units", invoice.UnitsBilled),
		zap.Int64("total_amount", invoice.TotalAmount),
	)
	return invoice, nil
}

func (s *Service) PayFromWallet(ctx context.Context, req domain.PayFromWalletRequest) (domain.Invoice, error) {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoiceID, err := s.parseID(req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var settled domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.authorizedMember(ctx, tx, memberID)
		if err != nil {
			return err
		}

		invoice, err := s.ownedUnpaidInvoice(ctx, tx, invoiceID, member.ID)
		if err != nil {
			return err
		}

		if member.WalletBalance < invoice.TotalAmount {
			return domain.ErrInsufficientFunds
		}
		debited, err := s.memberRepo.DebitWallet(ctx, tx, member.ID, invoice.TotalAmount)
		if err != nil {
			return err
		}
		if !debited {
			return domain.ErrInsufficientFunds
		}

		if err := s.settle(ctx, tx, invoice, ledgerdomain.SourceTypeWalletPayment, invoice.TotalAmount,
			ledgerdomain.AccountCodeMemberWallets); err != nil {
			return err
		}

		settled = *invoice
		settled.IsPaid = true
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice settled from wallet",
		zap.String("invoice_id", settled.ID.String()),
		zap.Int64("amount", settled.TotalAmount),
	)
	return settled, nil
}

func (s *Service) PayDirect(ctx context.Context, req domain.PayDirectRequest) (domain.Invoice, error) {
	if req.Amount < 0 {
		return domain.Invoice{}, domain.ErrInsufficientFunds
	}

	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoiceID, err := s.parseID(req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var settled domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.authorizedMember(ctx, tx, memberID)
		if err != nil {
			return err
		}

		invoice, err := s.ownedUnpaidInvoice(ctx, tx, invoiceID, member.ID)
		if err != nil {
			return err
		}

		if req.Amount < invoice.TotalAmount {
			return domain.ErrInsufficientFunds
		}

		// The whole supplied amount is absorbed; no change is returned on
		// overpayment.
		if err := s.settle(ctx, tx, invoice, ledgerdomain.SourceTypeDirectPayment, req.Amount,
			ledgerdomain.AccountCodeCash); err != nil {
			return err
		}

		settled = *invoice
		settled.IsPaid = true
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice settled directly",
		zap.String("invoice_id", settled.ID.String()),
		zap.Int64("amount", req.Amount),
	)
	return settled, nil
}

// settle marks the invoice paid, credits the treasury with amount and posts
// the balanced ledger entry. debitAccount is where the funds came from.
func (s *Service) settle(
	ctx context.Context,
	tx *gorm.DB,
	invoice *domain.Invoice,
	sourceType ledgerdomain.LedgerSourceType,
	amount int64,
	debitAccount ledgerdomain.LedgerAccountCode,
) error {
	sacco, err := s.saccoRepo.Find(ctx, tx)
	if err != nil {
		return err
	}
	if sacco == nil {
		return saccodomain.ErrNotInitialized
	}
	if sacco.TreasuryBalance > math.MaxInt64-amount {
		return domain.ErrAmountOverflow
	}

	paid, err := s.repo.MarkPaid(ctx, tx, invoice.ID)
	if err != nil {
		return err
	}
	if !paid {
		return domain.ErrInvalidInvoice
	}

	if err := s.saccoRepo.CreditTreasury(ctx, tx, amount); err != nil {
		return err
	}

	return s.ledgerSvc.CreateEntry(ctx, tx, sourceType, invoice.ID, s.clock.Now(), []ledgerdomain.LedgerEntryLine{
		{AccountCode: debitAccount, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: amount},
		{AccountCode: ledgerdomain.AccountCodeProduceRevenue, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: amount},
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := s.parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) ListByMember(ctx context.Context, memberID string, unpaidOnly bool) ([]domain.Invoice, error) {
	id, err := s.parseID(memberID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByMember(ctx, s.db, id, unpaidOnly)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

func (s *Service) UnpaidInvoiceIDs(ctx context.Context, memberID string) ([]snowflake.ID, error) {
	invoices, err := s.ListByMember(ctx, memberID, true)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(invoices))
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID)
	}
	return ids, nil
}

func (s *Service) ApplyLateFees(ctx context.Context, memberID string) (domain.SweepResult, error) {
	id, err := s.parseID(memberID)
	if err != nil {
		return domain.SweepResult{}, err
	}

	var result domain.SweepResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.memberRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if member == nil {
			return domain.ErrNotFound
		}

		sacco, err := s.saccoRepo.Find(ctx, tx)
		if err != nil {
			return err
		}
		if sacco == nil {
			return saccodomain.ErrNotInitialized
		}

		charged, err := s.repo.AddLateFees(ctx, tx, id, sacco.LateFee, s.clock.Now())
		if err != nil {
			return err
		}
		result = domain.SweepResult{InvoicesCharged: charged, LateFee: sacco.LateFee}
		return nil
	})
	if err != nil {
		return domain.SweepResult{}, err
	}
	return result, nil
}

func (s *Service) SweepLateFees(ctx context.Context) (domain.SweepResult, error) {
	var result domain.SweepResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sacco, err := s.saccoRepo.Find(ctx, tx)
		if err != nil {
			return err
		}
		if sacco == nil {
			return saccodomain.ErrNotInitialized
		}

		charged, err := s.repo.AddLateFeesAll(ctx, tx, sacco.LateFee, s.clock.Now())
		if err != nil {
			return err
		}
		result = domain.SweepResult{InvoicesCharged: charged, LateFee: sacco.LateFee}
		return nil
	})
	if err != nil {
		return domain.SweepResult{}, err
	}

	if result.InvoicesCharged > 0 {
		s.log.Info("late fees applied",
			zap.Int64("invoices_charged", result.InvoicesCharged),
			zap.Int64("late_fee", result.LateFee),
		)
	}
	return result, nil
}

func (s *Service) authorizedMember(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*memberdomain.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	caller, ok := identity.CallerFromContext(ctx)
	if !ok || caller != member.Identity {
		return nil, domain.ErrInvalidMember
	}
	return member, nil
}

// ownedUnpaidInvoice validates the cross-reference between a free-standing
// invoice handle and its owning member, then the unpaid precondition.
func (s *Service) ownedUnpaidInvoice(ctx context.Context, tx *gorm.DB, invoiceID, memberID snowflake.ID) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.MemberID != memberID {
		return nil, domain.ErrInvalidInvoice
	}
	if invoice.IsPaid {
		return nil, domain.ErrInvalidInvoice
	}
	return invoice, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, domain.ErrAmountOverflow
	}
	return product, nil
}
