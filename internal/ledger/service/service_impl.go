package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

func (s *Service) CreateEntry(
	ctx context.Context,
	tx *gorm.DB,
	sourceType ledgerdomain.LedgerSourceType,
	sourceID snowflake.ID,
	occurredAt time.Time,
	lines []ledgerdomain.LedgerEntryLine,
) error {
	if sourceType == "" {
		return ledgerdomain.ErrInvalidSourceType
	}
	if sourceID == 0 {
		return ledgerdomain.ErrInvalidSourceID
	}
	if occurredAt.IsZero() {
		return ledgerdomain.ErrInvalidOccurredAt
	}

	normalized := make([]ledgerdomain.LedgerEntryLine, 0, len(lines))
	for _, line := range lines {
		if line.AccountCode == "" {
			return ledgerdomain.ErrInvalidAccount
		}
		if line.Amount < 0 {
			return ledgerdomain.ErrInvalidLineAmount
		}
		normalized = append(normalized, ledgerdomain.LedgerEntryLine{
			AccountCode: line.AccountCode,
			Direction:   line.Direction,
			Amount:      line.Amount,
		})
	}

	if err := ledgerdomain.ValidateBalanced(normalized); err != nil {
		return err
	}

	if tx == nil {
		tx = s.db
	}

	entryID := s.genID.Generate()
	now := time.Now().UTC()
	if err := tx.WithContext(ctx).Exec(
		`INSERT INTO ledger_entries (id, source_type, source_id, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entryID,
		sourceType,
		sourceID,
		occurredAt.UTC(),
		now,
	).Error; err != nil {
		return err
	}

	for _, line := range normalized {
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO ledger_entry_lines (id, ledger_entry_id, account_code, direction, amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.genID.Generate(),
			entryID,
			line.AccountCode,
			line.Direction,
			line.Amount,
			now,
		).Error; err != nil {
			return err
		}
	}

	return nil
}

// AccountBalance returns the balance on the account's normal side: debits
// minus credits for assets, credits minus debits otherwise. A deposit
// therefore grows both the cash account and the member wallets account.
func (s *Service) AccountBalance(ctx context.Context, code ledgerdomain.LedgerAccountCode) (int64, error) {
	if code == "" {
		return 0, ledgerdomain.ErrInvalidAccount
	}

	var balance int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE direction WHEN 'credit' THEN amount ELSE -amount END), 0)
		 FROM ledger_entry_lines WHERE account_code = ?`,
		code,
	).Scan(&balance).Error
	if err != nil {
		return 0, err
	}

	if code.NormalSide() == ledgerdomain.LedgerEntryDirectionDebit {
		balance = -balance
	}
	return balance, nil
}
