// Run statistics for debug mode
package core

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// RunRecord tracks one completed or failed run
type RunRecord struct {
	Timestamp time.Time
	Operation string
	Success   bool
	Duration  time.Duration
	Error     string
}

// OperationStats aggregates the runs of one operation
type OperationStats struct {
	Operation   string
	Runs        int
	Failures    int
	AvgDuration time.Duration
}

// PipelineDebugger keeps a bounded history of runs
type PipelineDebugger struct {
	mu      sync.Mutex
	logger  logrus.FieldLogger
	limit   int
	records []RunRecord
}

func NewPipelineDebugger(logger logrus.FieldLogger, limit int) *PipelineDebugger {
	if limit <= 0 {
		limit = 100
	}
	return &PipelineDebugger{
		logger: logger.WithField("component", "pipeline_debug"),
		limit:  limit,
	}
}

// LogRun records a run, dropping the oldest record past the limit
func (pd *PipelineDebugger) LogRun(operation string, duration time.Duration, err error) {
	record := RunRecord{
		Timestamp: time.Now(),
		Operation: operation,
		Success:   err == nil,
		Duration:  duration,
	}
	if err != nil {
		record.Error = err.Error()
	}

	pd.mu.Lock()
	pd.records = append(pd.records, record)
	if len(pd.records) > pd.limit {
		pd.records = pd.records[len(pd.records)-pd.limit:]
	}
	pd.mu.Unlock()

	pd.logger.WithFields(logrus.Fields{
		"operation":   operation,
		"success":     record.Success,
		"duration_ms": duration.Milliseconds(),
		"error":       record.Error,
	}).Debug("PIPELINE Debug")
}

// Records returns the history, oldest first
func (pd *PipelineDebugger) Records() []RunRecord {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	records := make([]RunRecord, len(pd.records))
	copy(records, pd.records)
	return records
}

// GetStats groups the history by operation, sorted by name
func (pd *PipelineDebugger) GetStats() []OperationStats {
	grouped := lo.GroupBy(pd.Records(), func(r RunRecord) string { return r.Operation })

	stats := make([]OperationStats, 0, len(grouped))
	for op, records := range grouped {
		durations := lo.Map(records, func(r RunRecord, _ int) time.Duration { return r.Duration })
		stats = append(stats, OperationStats{
			Operation:   op,
			Runs:        len(records),
			Failures:    lo.CountBy(records, func(r RunRecord) bool { return !r.Success }),
			AvgDuration: averageDuration(durations),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Operation < stats[j].Operation })
	return stats
}

func averageDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	return lo.Sum(durations) / time.Duration(len(durations))
}
