package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	memberdomain "github.com/kilimo-labs/sacco/internal/member/domain"
	"github.com/kilimo-labs/sacco/pkg/db/pagination"
)

type registerMemberRequest struct {
	MemberCode string `json:"member_code"`
	Identity   string `json:"identity"`
}

func (s *Server) RegisterMember(c *gin.Context) {
	var req registerMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Register(c.Request.Context(), memberdomain.RegisterMemberRequest{
		MemberCode: strings.TrimSpace(req.MemberCode),
		Identity:   strings.TrimSpace(req.Identity),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMembers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		MemberCode string `form:"member_code"`
		Identity   string `form:"identity"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.List(c.Request.Context(), memberdomain.ListMemberRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		MemberCode: strings.TrimSpace(query.MemberCode),
		Identity:   strings.TrimSpace(query.Identity),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMemberByID(c *gin.Context) {
	resp, err := s.memberSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRemainingUnits(c *gin.Context) {
	units, err := s.memberSvc.RemainingUnits(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"produce_units": units}})
}

type adjustUnitsRequest struct {
	Units int64 `json:"units"`
}

func (s *Server) AdjustProduceUnits(c *gin.Context) {
	var req adjustUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.AdjustUnits(c.Request.Context(), memberdomain.AdjustUnitsRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		Units:    req.Units,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) Deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Deposit(c.Request.Context(), memberdomain.DepositRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		Amount:   req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) Withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Withdraw(c.Request.Context(), memberdomain.WithdrawRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		Amount:   req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
