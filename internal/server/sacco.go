package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kilimo-labs/sacco/internal/identity"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	saccodomain "github.com/kilimo-labs/sacco/internal/sacco/domain"
)

type initializeSaccoRequest struct {
	OwnerIdentity   string `json:"owner_identity"`
	UnitPrice       int64  `json:"unit_price"`
	LateFee         int64  `json:"late_fee"`
	OverdueDuration int64  `json:"overdue_duration_seconds"`
}

func (s *Server) InitializeSacco(c *gin.Context) {
	var req initializeSaccoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	owner := strings.TrimSpace(req.OwnerIdentity)
	if owner == "" {
		if caller, ok := identity.CallerFromContext(c.Request.Context()); ok {
			owner = caller
		}
	}

	resp, err := s.saccoSvc.Initialize(c.Request.Context(), saccodomain.InitializeRequest{
		OwnerIdentity:   owner,
		UnitPrice:       req.UnitPrice,
		LateFee:         req.LateFee,
		OverdueDuration: req.OverdueDuration,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSacco(c *gin.Context) {
	resp, err := s.saccoSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSaccoTermsRequest struct {
	UnitPrice int64 `json:"unit_price"`
	LateFee   int64 `json:"late_fee"`
}

func (s *Server) UpdateSaccoTerms(c *gin.Context) {
	var req updateSaccoTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.saccoSvc.UpdateTerms(c.Request.Context(), saccodomain.UpdateTermsRequest{
		UnitPrice: req.UnitPrice,
		LateFee:   req.LateFee,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetTreasury reports the treasury balance alongside the ledger's view of the
// produce revenue account. The two agree whenever postings and treasury
// credits commit together.
func (s *Server) GetTreasury(c *gin.Context) {
	sacco, err := s.saccoSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ledgerBalance, err := s.ledgerSvc.AccountBalance(c.Request.Context(), ledgerdomain.AccountCodeProduceRevenue)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"treasury_balance": sacco.TreasuryBalance,
		"ledger_balance":   ledgerBalance,
	}})
}
