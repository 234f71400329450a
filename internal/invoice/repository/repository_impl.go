package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, member_id, units_billed, total_amount, due_at, is_paid, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.MemberID,
		invoice.UnitsBilled,
		invoice.TotalAmount,
		invoice.DueAt,
		invoice.IsPaid,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, member_id, units_billed, total_amount, due_at, is_paid, created_at, updated_at
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) ListByMember(ctx context.Context, db *gorm.DB, memberID snowflake.ID, unpaidOnly bool) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("member_id = ?", memberID)
	if unpaidOnly {
		stmt = stmt.Where("is_paid = ?", false)
	}
	err := stmt.
		Order("created_at asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices SET is_paid = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_paid = ?`,
		true,
		id,
		false,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) AddLateFees(ctx context.Context, db *gorm.DB, memberID snowflake.ID, fee int64, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices SET total_amount = total_amount + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE member_id = ? AND is_paid = ? AND due_at < ?`,
		fee,
		memberID,
		false,
		now.UTC(),
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repo) AddLateFeesAll(ctx context.Context, db *gorm.DB, fee int64, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices SET total_amount = total_amount + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE is_paid = ? AND due_at < ?`,
		fee,
		false,
		now.UTC(),
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
