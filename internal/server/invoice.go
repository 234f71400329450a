package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/kilimo-labs/sacco/internal/invoice/domain"
)

type requestProduceRequest struct {
	Units int64 `json:"units"`
}

func (s *Server) RequestProduce(c *gin.Context) {
	var req requestProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.RequestProduce(c.Request.Context(), invoicedomain.RequestProduceRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		Units:    req.Units,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMemberInvoices(c *gin.Context) {
	unpaidOnly := false
	if raw := strings.TrimSpace(c.Query("unpaid")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("unpaid", "invalid_unpaid", "invalid unpaid flag"))
			return
		}
		unpaidOnly = parsed
	}

	resp, err := s.invoiceSvc.ListByMember(c.Request.Context(), strings.TrimSpace(c.Param("id")), unpaidOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"invoices": resp}})
}

func (s *Server) ListUnpaidInvoiceIDs(c *gin.Context) {
	ids, err := s.invoiceSvc.UnpaidInvoiceIDs(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	encoded := make([]string, 0, len(ids))
	for _, id := range ids {
		encoded = append(encoded, id.String())
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"invoice_ids": encoded}})
}

func (s *Server) PayInvoiceFromWallet(c *gin.Context) {
	resp, err := s.invoiceSvc.PayFromWallet(c.Request.Context(), invoicedomain.PayFromWalletRequest{
		MemberID:  strings.TrimSpace(c.Param("id")),
		InvoiceID: strings.TrimSpace(c.Param("invoice_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type payDirectRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) PayInvoiceDirectly(c *gin.Context) {
	var req payDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.PayDirect(c.Request.Context(), invoicedomain.PayDirectRequest{
		MemberID:  strings.TrimSpace(c.Param("id")),
		InvoiceID: strings.TrimSpace(c.Param("invoice_id")),
		Amount:    req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ApplyLateFees is callable by anyone, matching the open sweep contract.
func (s *Server) ApplyLateFees(c *gin.Context) {
	resp, err := s.invoiceSvc.ApplyLateFees(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
