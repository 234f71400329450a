package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/clock"
	"github.com/kilimo-labs/sacco/internal/identity"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	"github.com/kilimo-labs/sacco/internal/member/domain"
	"github.com/kilimo-labs/sacco/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	LedgerSvc ledgerdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	ledgerSvc ledgerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("member.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		ledgerSvc: p.LedgerSvc,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterMemberRequest) (domain.Member, error) {
	code := strings.TrimSpace(req.MemberCode)
	if code == "" {
		return domain.Member{}, domain.ErrInvalidCode
	}

	principal := strings.TrimSpace(req.Identity)
	if principal == "" {
		return domain.Member{}, domain.ErrInvalidIdentity
	}

	now := time.Now().UTC()
	member := domain.Member{
		ID:            s.genID.Generate(),
		MemberCode:    code,
		Identity:      principal,
		WalletBalance: 0,
		ProduceUnits:  0,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}

	s.log.Info("member registered",
		zap.String("member_id", member.ID.String()),
		zap.String("member_code", member.MemberCode),
	)
	return member, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Member, error) {
	memberID, err := s.parseID(id)
	if err != nil {
		return domain.Member{}, err
	}

	member, err := s.repo.FindByID(ctx, s.db, memberID)
	if err != nil {
		return domain.Member{}, err
	}
	if member == nil {
		return domain.Member{}, domain.ErrNotFound
	}
	return *member, nil
}

func (s *Service) List(ctx context.Context, req domain.ListMemberRequest) (domain.ListMemberResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListMemberFilter{
		MemberCode: strings.TrimSpace(req.MemberCode),
		Identity:   strings.TrimSpace(req.Identity),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListMemberResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(member *domain.Member) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        member.ID.String(),
			CreatedAt: member.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, *item)
	}

	resp := domain.ListMemberResponse{Members: members}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Deposit(ctx context.Context, req domain.DepositRequest) (domain.Member, error) {
	if req.Amount <= 0 {
		return domain.Member{}, domain.ErrInvalidAmount
	}

	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Member{}, err
	}

	var updated domain.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.authorizedMember(ctx, tx, memberID, domain.ErrInvalidMember)
		if err != nil {
			return err
		}
		if member.WalletBalance > math.MaxInt64-req.Amount {
			return domain.ErrAmountOverflow
		}
		if err := s.repo.CreditWallet(ctx, tx, memberID, req.Amount); err != nil {
			return err
		}
		if err := s.ledgerSvc.CreateEntry(ctx, tx, ledgerdomain.SourceTypeDeposit, member.ID, s.clock.Now(), []ledgerdomain.LedgerEntryLine{
			{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: req.Amount},
			{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: req.Amount},
		}); err != nil {
			return err
		}
		updated = *member
		updated.WalletBalance += req.Amount
		return nil
	})
	if err != nil {
		return domain.Member{}, err
	}

	return updated, nil
}

func (s *Service) Withdraw(ctx context.Context, req domain.WithdrawRequest) (domain.Member, error) {
	if req.Amount <= 0 {
		return domain.Member{}, domain.ErrInvalidAmount
	}

	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Member{}, err
	}

	var updated domain.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.authorizedMember(ctx, tx, memberID, domain.ErrUnauthorized)
		if err != nil {
			return err
		}
		if member.WalletBalance < req.Amount {
			return domain.ErrInsufficientFunds
		}
		debited, err := s.repo.DebitWallet(ctx, tx, memberID, req.Amount)
		if err != nil {
			return err
		}
		if !debited {
			return domain.ErrInsufficientFunds
		}
		if err := s.ledgerSvc.CreateEntry(ctx, tx, ledgerdomain.SourceTypeWithdrawal, member.ID, s.clock.Now(), []ledgerdomain.LedgerEntryLine{
			{AccountCode: ledgerdomain.AccountCodeMemberWallets, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: req.Amount},
			{AccountCode: ledgerdomain.AccountCodeCash, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: req.Amount},
		}); err != nil {
			return err
		}
		updated = *member
		updated.WalletBalance -= req.Amount
		return nil
	})
	if err != nil {
		return domain.Member{}, err
	}

	s.log.Info("wallet withdrawal",
		zap.String("member_id", updated.ID.String()),
		zap.Int64("amount", req.Amount),
	)
	return updated, nil
}

func (s *Service) AdjustUnits(ctx context.Context, req domain.AdjustUnitsRequest) (domain.Member, error) {
	if req.Units < 0 {
		return domain.Member{}, domain.ErrInvalidAmount
	}

	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Member{}, err
	}

	var updated domain.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.authorizedMember(ctx, tx, memberID, domain.ErrInvalidMember)
		if err != nil {
			return err
		}
		if member.ProduceUnits < req.Units {
			return domain.ErrUnitsUnderflow
		}
		adjusted, err := s.repo.AddProduceUnits(ctx, tx, memberID, -req.Units)
		if err != nil {
			return err
		}
		if !adjusted {
			return domain.ErrUnitsUnderflow
		}
		updated = *member
		updated.ProduceUnits -= req.Units
		return nil
	})
	if err != nil {
		return domain.Member{}, err
	}

	return updated, nil
}

func (s *Service) RemainingUnits(ctx context.Context, id string) (int64, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return member.ProduceUnits, nil
}

// authorizedMember loads the member and compares the calling principal
// against its stored identity. mismatchErr distinguishes the member-facing
// operations (invalid_member) from withdrawal (unauthorized).
func (s *Service) authorizedMember(ctx context.Context, tx *gorm.DB, id snowflake.ID, mismatchErr error) (*domain.Member, error) {
	member, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	caller, ok := identity.CallerFromContext(ctx)
	if !ok || caller != member.Identity {
		return nil, mismatchErr
	}
	return member, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
