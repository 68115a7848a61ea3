package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/model"
)

const (
	ReportBatchSize    = 50
	ReportBatchTimeout = 2 * time.Second
	ReportPollTimeout  = 1 * time.Second
)

// MarkSheetStore persists mark sheets. *repository.MarkSheetRepository
// implements it.
type MarkSheetStore interface {
	BulkUpsert(ctx context.Context, sheets []*model.MarkSheet) error
	Upsert(ctx context.Context, sheet *model.MarkSheet) error
}

// ReportWorker drains the mark sheet queue into Postgres.
type ReportWorker struct {
	store MarkSheetStore
	rdb   *redis.Client
	log   zerolog.Logger
}

func NewReportWorker(store MarkSheetStore, rdb *redis.Client, log zerolog.Logger) *ReportWorker {
	return &ReportWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "report_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then flushes what it holds.
func (w *ReportWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ReportWorker started")

	batch := make([]*model.MarkSheet, 0, ReportBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ReportBatchSize || time.Since(lastFlush) >= ReportBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ReportPollTimeout, config.WorkerKey.PersistMarkSheetsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(ReportPollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var sheet model.MarkSheet
			if err := json.Unmarshal([]byte(item[1]), &sheet); err != nil {
				w.log.Error().Err(err).Msg("Invalid mark sheet payload")
				continue
			}

			batch = append(batch, &sheet)
		}
	}
}

// ----------------------------------------------------------------
// Batch upsert with per-sheet fallback
// ----------------------------------------------------------------

func (w *ReportWorker) flushSafe(ctx context.Context, batch []*model.MarkSheet) {
	if len(batch) == 0 {
		return
	}

	sheets := latestPerAttempt(batch)

	if err := w.store.BulkUpsert(ctx, sheets); err != nil {
		w.log.Warn().Err(err).Int("size", len(sheets)).Msg("Bulk mark sheet upsert failed, using fallback")

		for _, s := range sheets {
			if err := w.store.Upsert(ctx, s); err != nil {
				w.log.Error().Err(err).
					Str("exam_id", s.ExamID.String()).
					Int("student_id", s.StudentID).
					Msg("Mark sheet upsert failed, requeueing")
				w.requeue(ctx, s)
			}
		}
		return
	}

	w.log.Debug().Int("size", len(sheets)).Msg("Mark sheets persisted")
}

func (w *ReportWorker) requeue(ctx context.Context, s *model.MarkSheet) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := w.rdb.RPush(ctx, config.WorkerKey.PersistMarkSheetsQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("Requeue failed, mark sheet dropped")
	}
}

// latestPerAttempt keeps only the newest submission for each exam and student,
// since one upsert statement cannot touch the same row twice. Submission time
// decides, so a requeued sheet never displaces a later one; equal times go to
// the later arrival. Order of first appearance is preserved.
func latestPerAttempt(batch []*model.MarkSheet) []*model.MarkSheet {
	type attempt struct {
		exam    string
		student int
	}

	index := make(map[attempt]int, len(batch))
	out := make([]*model.MarkSheet, 0, len(batch))
	for _, s := range batch {
		key := attempt{exam: s.ExamID.String(), student: s.StudentID}
		if i, ok := index[key]; ok {
			if !s.UpdatedAt.Before(out[i].UpdatedAt) {
				out[i] = s
			}
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}
