// Package router assembles the HTTP surface of the ledger.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kaban/internal/database"
	"kaban/internal/handlers"
	"kaban/internal/middleware"
	"kaban/internal/services"

	_ "kaban/internal/docs" // Import swagger docs
)

// Options configures the router.
type Options struct {
	AllowedOrigin string
	// EnableSwagger mounts /swagger/*any.
	EnableSwagger bool
}

// Setup wires services and handlers over runner and returns the Gin engine.
func Setup(runner *database.TxRunner, opts Options) *gin.Engine {
	db := runner.DB()

	// Services
	proposalService := services.NewProposalService(runner)
	ledgerService := services.NewLedgerService(runner)
	obligationService := services.NewObligationService(runner)
	fiscalYearService := services.NewFiscalYearService(runner)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	proposalHandler := handlers.NewProposalHandler(proposalService, ledgerService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	obligationHandler := handlers.NewObligationHandler(obligationService, auditService)
	fiscalYearHandler := handlers.NewFiscalYearHandler(fiscalYearService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	if opts.AllowedOrigin != "" {
		router.Use(middleware.CORS(opts.AllowedOrigin))
	}

	if opts.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Protected routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	fiscalYears := v1.Group("/fiscal-years")
	fiscalYears.POST("", fiscalYearHandler.CreateFiscalYear)
	fiscalYears.GET("", fiscalYearHandler.ListFiscalYears)
	fiscalYears.GET("/:year", fiscalYearHandler.GetFiscalYear)
	fiscalYears.POST("/:year/activate", fiscalYearHandler.ActivateFiscalYear)
	fiscalYears.POST("/:year/close", fiscalYearHandler.CloseFiscalYear)

	proposals := v1.Group("/proposals")
	proposals.POST("", proposalHandler.CreateProposal)
	proposals.GET("", proposalHandler.ListProposals)
	proposals.GET("/:id", proposalHandler.GetProposal)
	proposals.PUT("/:id", proposalHandler.UpdateProposal)
	proposals.GET("/:id/compliance", proposalHandler.GetCompliance)
	proposals.POST("/:id/approve", proposalHandler.ApproveProposal)
	proposals.POST("/:id/reject", proposalHandler.RejectProposal)

	v1.GET("/appropriations", ledgerHandler.ListAppropriations)

	allotments := v1.Group("/allotments")
	allotments.GET("", ledgerHandler.ListAllotments)
	allotments.GET("/:id", ledgerHandler.GetAllotment)
	allotments.GET("/:id/verify", ledgerHandler.VerifyAllotment)
	allotments.POST("/:id/obligations", obligationHandler.ReserveFunds)
	allotments.GET("/:id/obligations", obligationHandler.ListObligations)

	obligations := v1.Group("/obligations")
	obligations.GET("/:id", obligationHandler.GetObligation)
	obligations.POST("/:id/certify", obligationHandler.CertifyObligation)
	obligations.POST("/:id/disburse", obligationHandler.DisburseObligation)
	obligations.POST("/:id/cancel", obligationHandler.CancelObligation)

	v1.GET("/reports/registry", reportHandler.ExportRegistry)

	return router
}
