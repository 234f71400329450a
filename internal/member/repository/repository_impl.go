package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/member/domain"
	"github.com/kilimo-labs/sacco/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO members (id, member_code, identity, wallet_balance, produce_units, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.MemberCode,
		member.Identity,
		member.WalletBalance,
		member.ProduceUnits,
		member.Metadata,
		member.CreatedAt,
		member.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).Raw(
		`SELECT id, member_code, identity, wallet_balance, produce_units, metadata, created_at, updated_at
		 FROM members WHERE id = ?`,
		id,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListMemberFilter, page pagination.Pagination) ([]*domain.Member, error) {
	var members []*domain.Member
	stmt := db.WithContext(ctx).Model(&domain.Member{})
	if filter.MemberCode != "" {
		stmt = stmt.Where("member_code = ?", filter.MemberCode)
	}
	if filter.Identity != "" {
		stmt = stmt.Where("identity = ?", filter.Identity)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	err := stmt.
		Order("created_at asc, id asc").
		Limit(limit + 1).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) DebitWallet(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE members SET wallet_balance = wallet_balance - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND wallet_balance >= ?`,
		amount,
		id,
		amount,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) CreditWallet(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE members SET wallet_balance = wallet_balance + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		amount,
		id,
	).Error
}

func (r *repo) AddProduceUnits(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE members SET produce_units = produce_units + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND produce_units + ? >= 0`,
		delta,
		id,
		delta,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
