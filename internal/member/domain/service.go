package domain

import (
	"context"
	"errors"

	"github.com/kilimo-labs/sacco/pkg/db/pagination"
)

type RegisterMemberRequest struct {
	MemberCode string
	Identity   string
}

type DepositRequest struct {
	MemberID string
	Amount   int64
}

type WithdrawRequest struct {
	MemberID string
	Amount   int64
}

type AdjustUnitsRequest struct {
	MemberID string
	// Units is the amount to subtract from the member's produce-unit count.
	Units int64
}

type ListMemberRequest struct {
	PageToken  string
	PageSize   int32
	MemberCode string
	Identity   string
}

type ListMemberFilter struct {
	MemberCode string
	Identity   string
}

type ListMemberResponse struct {
	pagination.PageInfo
	Members []Member `json:"members"`
}

type Service interface {
	// Register creates a member with zero balances and no invoices. Duplicate
	// member codes are allowed; only the generated ID is unique.
	Register(context.Context, RegisterMemberRequest) (Member, error)
	GetByID(ctx context.Context, id string) (Member, error)
	List(context.Context, ListMemberRequest) (ListMemberResponse, error)
	// Deposit credits the caller's wallet. Caller must be the member.
	Deposit(context.Context, DepositRequest) (Member, error)
	// Withdraw debits the caller's wallet and transfers the funds out.
	Withdraw(context.Context, WithdrawRequest) (Member, error)
	// AdjustUnits decreases the produce-unit count, rejecting underflow.
	AdjustUnits(context.Context, AdjustUnitsRequest) (Member, error)
	// RemainingUnits reports the member's produce-unit count. No authorization.
	RemainingUnits(ctx context.Context, id string) (int64, error)
}

var (
	ErrInvalidCode       = errors.New("invalid_member_code")
	ErrInvalidIdentity   = errors.New("invalid_identity")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidMember     = errors.New("invalid_member")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrUnitsUnderflow    = errors.New("produce_units_underflow")
	ErrAmountOverflow    = errors.New("amount_overflow")
)
