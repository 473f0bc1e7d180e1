package purge

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/prometheus"
)

// DefaultBatchSize keeps a single deletion statement under the store's
// per-write operation limit.
const DefaultBatchSize = 100

// Engine deletes every record of one studio-scoped subcollection in bounded
// batches. Invoking it on an already-empty or partially-deleted
// subcollection is a safe no-op, which is what makes tenant deletion
// resumable after a crash.
type Engine struct {
	db        *gorm.DB
	batchSize int
	log       *zap.Logger
}

func NewEngine(db *gorm.DB, batchSize int, log *zap.Logger) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Engine{db: db, batchSize: batchSize, log: log}
}

// Purge removes all of studioID's records from sub and returns the number
// of batches executed. Each iteration queries up to batchSize ids ordered
// by id, deletes exactly those rows in one statement, and repeats until a
// query comes back empty. A plain loop carries the cursor state between
// batches, so arbitrarily large subcollections never grow the call stack,
// and each batch waits for the previous delete to be acknowledged.
func (e *Engine) Purge(studioID string, sub model.Subcollection) (int, error) {
	defer prometheus.TrackDBOperation("purge")(time.Now())

	batches := 0
	for {
		var ids []string
		err := e.db.Model(sub.Model).
			Where("studio_id = ?", studioID).
			Order("id").
			Limit(e.batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return batches, apperr.Internal("failed to query "+sub.Name+" batch", err)
		}
		if len(ids) == 0 {
			return batches, nil
		}

		result := e.db.Where("studio_id = ? AND id IN ?", studioID, ids).Delete(sub.Model)
		if result.Error != nil {
			return batches, apperr.Internal("failed to delete "+sub.Name+" batch", result.Error)
		}

		batches++
		prometheus.RecordPurgeBatch(sub.Name)
		e.log.Debug("Deletion batch completed",
			zap.String("studio_id", studioID),
			zap.String("collection", sub.Name),
			zap.Int("deleted", len(ids)),
			zap.Int("batch", batches))
	}
}
