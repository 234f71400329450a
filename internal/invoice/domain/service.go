package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type RequestProduceRequest struct {
	MemberID string
	Units    int64
}

type PayFromWalletRequest struct {
	MemberID  string
	InvoiceID string
}

type PayDirectRequest struct {
	MemberID  string
	InvoiceID string
	// Amount is the externally supplied payment. It must cover the invoice
	// total; the full amount, excess included, is absorbed into the treasury.
	Amount int64
}

type SweepResult struct {
	InvoicesCharged int64 `json:"invoices_charged"`
	LateFee         int64 `json:"late_fee"`
}

type Service interface {
	// RequestProduce bills the member for units at the current unit price and
	// appends an unpaid invoice due after the current overdue window.
	RequestProduce(context.Context, RequestProduceRequest) (Invoice, error)
	// PayFromWallet settles the invoice from the member's wallet balance.
	PayFromWallet(context.Context, PayFromWalletRequest) (Invoice, error)
	// PayDirect settles the invoice with externally supplied funds.
	PayDirect(context.Context, PayDirectRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	// ListByMember returns invoices in creation order. No authorization.
	ListByMember(ctx context.Context, memberID string, unpaidOnly bool) ([]Invoice, error)
	// UnpaidInvoiceIDs returns identifiers of unpaid invoices in creation
	// order. No authorization.
	UnpaidInvoiceIDs(ctx context.Context, memberID string) ([]snowflake.ID, error)
	// ApplyLateFees charges the current late fee to each of the member's
	// overdue unpaid invoices. Deliberately open: no authorization, and each
	// call charges again.
	ApplyLateFees(ctx context.Context, memberID string) (SweepResult, error)
	// SweepLateFees runs the same charge across every member.
	SweepLateFees(ctx context.Context) (SweepResult, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidUnits      = errors.New("invalid_units")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidMember     = errors.New("invalid_member")
	ErrInvalidInvoice    = errors.New("invalid_invoice")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrAmountOverflow    = errors.New("amount_overflow")
)
