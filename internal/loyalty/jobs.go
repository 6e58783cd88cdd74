package loyalty

import (
	"context"
	"errors"
	"log"
	"time"
)

// JobProcessor drives periodic settlement passes
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
}

// JobConfig contains configuration for the settlement job
type JobConfig struct {
	SettlementInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SettlementInterval: 5 * time.Minute,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts the background settlement loop
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting loyalty settlement job...")
	go jp.startSettlementLoop(ctx)
}

// Stop stops the background settlement loop
func (jp *JobProcessor) Stop() {
	log.Println("Stopping loyalty settlement job...")
	close(jp.done)
}

func (jp *JobProcessor) startSettlementLoop(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SettlementInterval)
	defer ticker.Stop()

	log.Printf("Started settlement processor with %v interval", jp.config.SettlementInterval)

	// Run immediately on startup so a restart never delays due awards
	jp.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			jp.runOnce(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) runOnce(ctx context.Context) {
	summary, err := jp.service.ProcessPendingPoints(ctx)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			return
		}
		log.Printf("Error processing pending points: %v", err)
		return
	}

	if summary.Processed > 0 {
		log.Printf("Settled %d of %d pending bookings", summary.Processed, summary.TotalPending)
	}
}

// GetJobStatus returns the status of the settlement job
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"settlement_interval": jp.config.SettlementInterval.String(),
		"status":              "running",
	}
}
