package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kilimo-labs/sacco/internal/config"
	"github.com/kilimo-labs/sacco/internal/invoice"
	invoicedomain "github.com/kilimo-labs/sacco/internal/invoice/domain"
	"github.com/kilimo-labs/sacco/internal/ledger"
	ledgerdomain "github.com/kilimo-labs/sacco/internal/ledger/domain"
	"github.com/kilimo-labs/sacco/internal/member"
	memberdomain "github.com/kilimo-labs/sacco/internal/member/domain"
	obsmetrics "github.com/kilimo-labs/sacco/internal/observability/metrics"
	"github.com/kilimo-labs/sacco/internal/sacco"
	saccodomain "github.com/kilimo-labs/sacco/internal/sacco/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	sacco.Module,
	member.Module,
	invoice.Module,
	ledger.Module,
	fx.Provide(obsmetrics.NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	SaccoSvc   saccodomain.Service
	MemberSvc  memberdomain.Service
	InvoiceSvc invoicedomain.Service
	LedgerSvc  ledgerdomain.Service
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	db         *gorm.DB
	engine     *gin.Engine
	saccoSvc   saccodomain.Service
	memberSvc  memberdomain.Service
	invoiceSvc invoicedomain.Service
	ledgerSvc  ledgerdomain.Service
}

func NewServer(p Params, engine *gin.Engine) *Server {
	return &Server{
		cfg:        p.Config,
		log:        p.Log.Named("server"),
		db:         p.DB,
		engine:     engine,
		saccoSvc:   p.SaccoSvc,
		memberSvc:  p.MemberSvc,
		invoiceSvc: p.InvoiceSvc,
		ledgerSvc:  p.LedgerSvc,
	}
}

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(CallerMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RegisterRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	v1.POST("/sacco", s.InitializeSacco)
	v1.GET("/sacco", s.GetSacco)
	v1.PATCH("/sacco/terms", s.UpdateSaccoTerms)
	v1.GET("/sacco/treasury", s.GetTreasury)

	v1.POST("/members", s.RegisterMember)
	v1.GET("/members", s.ListMembers)
	v1.GET("/members/:id", s.GetMemberByID)
	v1.GET("/members/:id/units", s.GetRemainingUnits)
	v1.POST("/members/:id/units/adjust", s.AdjustProduceUnits)
	v1.POST("/members/:id/deposits", s.Deposit)
	v1.POST("/members/:id/withdrawals", s.Withdraw)
	v1.POST("/members/:id/produce-requests", s.RequestProduce)
	v1.GET("/members/:id/invoices", s.ListMemberInvoices)
	v1.GET("/members/:id/invoices/unpaid", s.ListUnpaidInvoiceIDs)
	v1.POST("/members/:id/invoices/:invoice_id/wallet-payment", s.PayInvoiceFromWallet)
	v1.POST("/members/:id/invoices/:invoice_id/direct-payment", s.PayInvoiceDirectly)
	v1.POST("/members/:id/late-fees", s.ApplyLateFees)

	v1.GET("/invoices/:id", s.GetInvoiceByID)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
