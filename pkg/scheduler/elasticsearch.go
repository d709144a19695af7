package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/repositories/game"
)

// IndexMaintainer is the part of the Elasticsearch round repository the
// maintenance tasks drive
type IndexMaintainer interface {
	RotateIndices(ctx context.Context) error
	PruneOldIndices(ctx context.Context) error
	GetConfig() game.ElasticsearchConfig
}

// DefaultPruneInterval is how often expired round indices are looked for
const DefaultPruneInterval = 7 * 24 * time.Hour

// ElasticsearchMaintenanceScheduler manages scheduled maintenance tasks for Elasticsearch
type ElasticsearchMaintenanceScheduler struct {
	scheduler *Scheduler
	repo      IndexMaintainer
	logger    *logging.Logger
}

// NewElasticsearchMaintenanceScheduler creates a new scheduler for Elasticsearch maintenance tasks
func NewElasticsearchMaintenanceScheduler(repo IndexMaintainer, logger *logging.Logger) *ElasticsearchMaintenanceScheduler {
	if logger == nil {
		logger = logging.Default
	}
	return &ElasticsearchMaintenanceScheduler{
		scheduler: NewScheduler(logger),
		repo:      repo,
		logger:    logger,
	}
}

// Start schedules index rotation at the configured rotation period (daily
// when unset) and weekly pruning of indices past the retention period
func (s *ElasticsearchMaintenanceScheduler) Start(ctx context.Context) {
	config := s.repo.GetConfig()

	rotationInterval := config.RotationPeriod
	if rotationInterval <= 0 {
		rotationInterval = 24 * time.Hour
	}
	s.scheduler.AddTask("index_rotation", rotationInterval, s.rotateIndices)
	s.scheduler.AddTask("index_pruning", DefaultPruneInterval, s.pruneOldIndices)

	s.scheduler.Start(ctx)
	s.logger.Info("Elasticsearch maintenance scheduler started")
}

// Stop stops the maintenance scheduler
func (s *ElasticsearchMaintenanceScheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Elasticsearch maintenance scheduler stopped")
}

func (s *ElasticsearchMaintenanceScheduler) rotateIndices(ctx context.Context) error {
	s.logger.Debug("Running scheduled index rotation task")
	return s.repo.RotateIndices(ctx)
}

func (s *ElasticsearchMaintenanceScheduler) pruneOldIndices(ctx context.Context) error {
	s.logger.Debug("Running scheduled index pruning task")
	return s.repo.PruneOldIndices(ctx)
}
