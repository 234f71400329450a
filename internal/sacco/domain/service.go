package domain

import (
	"context"
	"errors"
)

type InitializeRequest struct {
	OwnerIdentity   string
	UnitPrice       int64
	LateFee         int64
	OverdueDuration int64
}

type UpdateTermsRequest struct {
	UnitPrice int64
	LateFee   int64
}

type Service interface {
	// Initialize creates the singleton association record with zero treasury.
	Initialize(context.Context, InitializeRequest) (Sacco, error)
	// UpdateTerms overwrites unit price and late fee. Caller must be the owner.
	UpdateTerms(context.Context, UpdateTermsRequest) (Sacco, error)
	Get(context.Context) (Sacco, error)
}

var (
	ErrAlreadyInitialized = errors.New("already_initialized")
	ErrNotInitialized     = errors.New("not_initialized")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidOwner       = errors.New("invalid_owner")
	ErrInvalidTerms       = errors.New("invalid_terms")
)
