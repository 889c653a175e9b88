package processor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"nogus/server/config"
	"nogus/server/internal/database"
	"nogus/server/internal/finance"
	"nogus/server/internal/models"
	"nogus/server/internal/queue"
)

var (
	ErrEmptyBatch    = errors.New("batch is empty")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// Transactor is the part of *gorm.DB the processor needs
type Transactor interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor values queued analysis batches and stores the outcomes
type BatchProcessor struct {
	db        Transactor
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.AnalysisQueue
	engine    *finance.Engine
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewBatchProcessor(db Transactor, queue *queue.AnalysisQueue, engine *finance.Engine, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		engine: engine,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit assigns IDs to the inputs and queues them as one batch. The
// returned requests carry the IDs the results will be stored under.
func (p *BatchProcessor) Submit(inputs []models.AnalysisInput) ([]*models.AnalysisRequest, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	if limit := p.config.BatchProcessing.MaxBatchSize; limit > 0 && len(inputs) > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(inputs), limit)
	}

	batch := make([]*models.AnalysisRequest, len(inputs))
	for i, input := range inputs {
		batch[i] = &models.AnalysisRequest{ID: uuid.NewString(), Input: input}
	}
	if err := p.queue.Push(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Start subscribes to the queue and starts one consumer per configured
// processor
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.handleBatch)

	count := p.config.BatchProcessing.ProcessorCount
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		p.queue.Start()
	}
}

// Stop rejects new batches, waits until every batch already accepted has
// been valued and stored, then cancels the processor's context
func (p *BatchProcessor) Stop() {
	p.queue.Close()
	p.queue.Wait()
	p.cancel()
}

func (p *BatchProcessor) handleBatch(batch []*models.AnalysisRequest) error {
	return p.processBatch(batch)
}

// processBatch values a batch and stores every outcome, failed analyses
// included. When valuation is abandoned every request is stored as failed
// so no accepted ID is left without a record.
func (p *BatchProcessor) processBatch(batch []*models.AnalysisRequest) error {
	records, err := p.analyze(batch)
	if err != nil {
		p.logger.WithError(err).WithField("batch_size", len(batch)).Error("Batch valuation abandoned")
		records = abandoned(batch, err)
	}
	return p.persist(records)
}

func abandoned(batch []*models.AnalysisRequest, err error) []*models.AnalysisRecord {
	records := make([]*models.AnalysisRecord, len(batch))
	for i, req := range batch {
		records[i] = models.NewAnalysisRecord(req.ID, req.Input, nil, err)
	}
	return records
}

func (p *BatchProcessor) analyze(batch []*models.AnalysisRequest) ([]*models.AnalysisRecord, error) {
	records := make([]*models.AnalysisRecord, len(batch))

	// requests whose market profile cannot be resolved fail without running
	var inputs []models.AnalysisInput
	var slots []int
	for i, req := range batch {
		input := req.Input
		if err := config.ResolveMarketProfile(&input); err != nil {
			records[i] = models.NewAnalysisRecord(req.ID, input, nil, err)
			continue
		}
		inputs = append(inputs, input)
		slots = append(slots, i)
	}

	outcomes, err := p.engine.AnalyzePortfolio(p.ctx, inputs, p.config.Analysis.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to value batch: %w", err)
	}

	failed := 0
	for j, outcome := range outcomes {
		i := slots[j]
		records[i] = models.NewAnalysisRecord(batch[i].ID, outcome.Input, outcome.Result, outcome.Err)
		if outcome.Err != nil {
			failed++
			p.logger.WithError(outcome.Err).WithField("analysis", batch[i].ID).Warn("Analysis failed")
		}
	}
	failed += len(batch) - len(outcomes)

	p.logger.WithFields(logrus.Fields{
		"batch_size": len(batch),
		"failed":     failed,
	}).Info("Valued analysis batch")
	return records, nil
}

// persist writes the records in one transaction, retrying failed attempts
func (p *BatchProcessor) persist(records []*models.AnalysisRecord) error {
	attempts := p.config.BatchProcessing.MaxRetries + 1

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			p.logger.Infof("Retrying batch write, attempt %d of %d", attempt, attempts)
			select {
			case <-time.After(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second):
			case <-p.ctx.Done():
				return fmt.Errorf("batch write abandoned: %w", p.ctx.Err())
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertAnalyses(tx, records); err != nil {
				return fmt.Errorf("failed to upsert analyses batch: %w", err)
			}
			return nil
		})
		if err == nil {
			p.logger.Infof("Stored batch of %d analyses", len(records))
			return nil
		}

		p.logger.Errorf("Batch write failed: %v", err)
	}

	return fmt.Errorf("failed to store batch after %d attempts: %w", attempts, err)
}
