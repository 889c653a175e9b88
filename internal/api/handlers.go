package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nogus/server/config"
	"nogus/server/internal/database"
	"nogus/server/internal/finance"
	"nogus/server/internal/models"
	"nogus/server/internal/processor"
	"nogus/server/internal/queue"
)

type Handler struct {
	db        *database.Database
	engine    *finance.Engine
	processor *processor.BatchProcessor
	logger    *logrus.Logger
}

type BatchRequest struct {
	Analyses []models.AnalysisInput `json:"analyses" binding:"required"`
}

type IRRRequest struct {
	Cashflows []float64 `json:"cashflows" binding:"required"`
}

type AmortizationResponse struct {
	MonthlyPayment float64   `json:"monthly_payment"`
	Schedule       []float64 `json:"schedule"`
	Annual         []float64 `json:"annual"`
	BalloonBalance float64   `json:"balloon_balance"`
}

func NewHandler(db *database.Database, engine *finance.Engine, batches *processor.BatchProcessor, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if engine == nil {
		engine = finance.NewEngine(nil, logger)
	}

	return &Handler{
		db:        db,
		engine:    engine,
		processor: batches,
		logger:    logger,
	}
}

// analysisStatus maps engine errors to 422 and anything else to 500
func analysisStatus(err error) int {
	var domain *finance.DomainError
	var missing *finance.MissingDependencyError
	var noConvergence *finance.NoConvergenceError
	switch {
	case errors.As(err, &domain), errors.As(err, &missing), errors.As(err, &noConvergence):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// CreateAnalysis runs one analysis synchronously and stores the outcome.
// Failed analyses are stored too so they can be inspected later.
func (h *Handler) CreateAnalysis(c *gin.Context) {
	var input models.AnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.WithError(err).Error("Invalid analysis request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id := uuid.NewString()
	status := http.StatusUnprocessableEntity
	var result *models.AnalysisResult
	analysisErr := config.ResolveMarketProfile(&input)
	if analysisErr == nil {
		result, analysisErr = h.engine.Analyze(input)
		status = analysisStatus(analysisErr)
	}

	record := models.NewAnalysisRecord(id, input, result, analysisErr)
	if err := h.db.SaveAnalysis(record); err != nil {
		h.logger.WithError(err).Error("Failed to store analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store analysis"})
		return
	}

	if analysisErr != nil {
		h.logger.WithError(analysisErr).WithField("analysis", id).Warn("Analysis failed")
		c.JSON(status, gin.H{"id": id, "error": analysisErr.Error()})
		return
	}

	c.JSON(http.StatusCreated, roundRecord(*record))
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	records, err := h.db.ListAnalyses(limit, c.Query("status"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}

	for i := range records {
		records[i] = roundRecord(records[i])
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	record, err := h.db.GetAnalysis(c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	c.JSON(http.StatusOK, roundRecord(*record))
}

// SubmitBatch queues analyses for background valuation and returns the IDs
// their results will be stored under
func (h *Handler) SubmitBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid batch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	batch, err := h.processor.Submit(req.Analyses)
	switch {
	case errors.Is(err, processor.ErrEmptyBatch), errors.Is(err, processor.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, queue.ErrQueueFull), errors.Is(err, queue.ErrQueueClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to queue batch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue batch"})
		return
	}

	ids := make([]string, len(batch))
	for i, r := range batch {
		ids[i] = r.ID
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "ids": ids})
}

// SolveIRR solves the internal rate of return of a bare cash-flow series
func (h *Handler) SolveIRR(c *gin.Context) {
	var req IRRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.engine.Solver().Solve(req.Cashflows)
	if err != nil {
		c.JSON(analysisStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Amortize returns the monthly debt service schedule of a loan. The term
// defaults to the amortization period.
func (h *Handler) Amortize(c *gin.Context) {
	var loan models.LoanTerms
	if err := c.ShouldBindJSON(&loan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if loan.TermYears == 0 {
		loan.TermYears = loan.AmortizationYears
	}

	schedule, err := finance.LoanDebtSchedule(loan)
	if err != nil {
		c.JSON(analysisStatus(err), gin.H{"error": err.Error()})
		return
	}
	balloon, err := finance.RemainingBalance(loan.Principal, loan.InterestRate, loan.AmortizationYears, len(schedule))
	if err != nil {
		c.JSON(analysisStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AmortizationResponse{
		MonthlyPayment: roundCents(schedule[0]),
		Schedule:       roundAll(schedule),
		Annual:         roundAll(finance.AnnualTotals(schedule)),
		BalloonBalance: roundCents(balloon),
	})
}

func (h *Handler) GetMarketProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, config.GetMarketProfiles())
}
