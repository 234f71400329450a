package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/identity"
	"github.com/kilimo-labs/sacco/internal/sacco/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sacco.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Initialize(ctx context.Context, req domain.InitializeRequest) (domain.Sacco, error) {
	owner := strings.TrimSpace(req.OwnerIdentity)
	if owner == "" {
		return domain.Sacco{}, domain.ErrInvalidOwner
	}
	if req.UnitPrice < 0 || req.LateFee < 0 || req.OverdueDuration < 0 {
		return domain.Sacco{}, domain.ErrInvalidTerms
	}

	now := time.Now().UTC()
	sacco := domain.Sacco{
		ID:              s.genID.Generate(),
		OwnerIdentity:   owner,
		UnitPrice:       req.UnitPrice,
		LateFee:         req.LateFee,
		OverdueDuration: req.OverdueDuration,
		TreasuryBalance: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.Find(ctx, tx)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyInitialized
		}
		return s.repo.Insert(ctx, tx, &sacco)
	})
	if err != nil {
		return domain.Sacco{}, err
	}

	s.log.Info("sacco initialized",
		zap.String("sacco_id", sacco.ID.String()),
		zap.Int64("unit_price", sacco.UnitPrice),
		zap.Int64("late_fee", sacco.LateFee),
	)
	return sacco, nil
}

func (s *Service) UpdateTerms(ctx context.Context, req domain.UpdateTermsRequest) (domain.Sacco, error) {
	caller, ok := identity.CallerFromContext(ctx)
	if !ok {
		return domain.Sacco{}, domain.ErrUnauthorized
	}
	if req.UnitPrice < 0 || req.LateFee < 0 {
		return domain.Sacco{}, domain.ErrInvalidTerms
	}

	var updated domain.Sacco
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sacco, err := s.repo.Find(ctx, tx)
		if err != nil {
			return err
		}
		if sacco == nil {
			return domain.ErrNotInitialized
		}
		if sacco.OwnerIdentity != caller {
			return domain.ErrUnauthorized
		}
		if err := s.repo.UpdateTerms(ctx, tx, req.UnitPrice, req.LateFee); err != nil {
			return err
		}
		updated = *sacco
		updated.UnitPrice = req.UnitPrice
		updated.LateFee = req.LateFee
		return nil
	})
	if err != nil {
		return domain.Sacco{}, err
	}

	s.log.Info("sacco terms updated",
		zap.Int64("unit_price", updated.UnitPrice),
		zap.Int64("late_fee", updated.LateFee),
	)
	return updated, nil
}

func (s *Service) Get(ctx context.Context) (domain.Sacco, error) {
	sacco, err := s.repo.Find(ctx, s.db)
	if err != nil {
		return domain.Sacco{}, err
	}
	if sacco == nil {
		return domain.Sacco{}, domain.ErrNotInitialized
	}
	return *sacco, nil
}
