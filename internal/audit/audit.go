// Package audit turns security decisions into immutable activity-log rows.
//
// Writes are asynchronous through a buffered channel so callers never block
// on the sink, with one exception: failed_login and account_locked events
// are written synchronously before the caller returns. Those two are the
// forensic trail for abuse investigation and must not be dropped by a full
// buffer or a crashing process.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

// Sink appends one activity-log row. Implemented by the store.
type Sink interface {
	AppendActivity(ctx context.Context, e *models.ActivityLog) error
}

// Recorder implements core.Auditor over a Sink.
type Recorder struct {
	sink Sink
	lg   *zap.SugaredLogger
	ch   chan models.ActivityLog
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
	now  func() time.Time
}

const defaultBuffer = 256

func NewRecorder(sink Sink, lg *zap.SugaredLogger) *Recorder {
	r := &Recorder{
		sink: sink,
		lg:   lg,
		ch:   make(chan models.ActivityLog, defaultBuffer),
		done: make(chan struct{}),
		now:  time.Now,
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for {
		select {
		case row := <-r.ch:
			r.write(row)
		case <-r.done:
			for {
				select {
				case row := <-r.ch:
					r.write(row)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(row models.ActivityLog) {
	// Detached context: the originating request may already be gone.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.sink.AppendActivity(ctx, &row); err != nil {
		r.lg.Errorw("audit write failed", "action", row.Action, "error", err)
	}
}

// Record emits one event. Lockout-class events are persisted before Record
// returns; everything else is queued, falling back to a synchronous write
// when the buffer is full.
func (r *Recorder) Record(ctx context.Context, e core.AuditEvent) {
	row := r.toRow(e)
	if critical(e.Action) {
		if err := r.sink.AppendActivity(ctx, &row); err != nil {
			r.lg.Errorw("audit write failed", "action", row.Action, "error", err)
		}
		return
	}
	select {
	case r.ch <- row:
	default:
		r.write(row)
	}
}

// Close drains queued events and stops the worker.
func (r *Recorder) Close() {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}

func (r *Recorder) toRow(e core.AuditEvent) models.ActivityLog {
	row := models.ActivityLog{
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		CreatedAt:    r.now(),
	}
	if e.UserID != "" {
		id := e.UserID
		row.UserID = &id
	}
	if len(e.Details) > 0 {
		if b, err := json.Marshal(e.Details); err == nil {
			row.Details = models.JSONB(b)
		}
	}
	return row
}

func critical(action string) bool {
	return action == core.ActionFailedLogin || action == core.ActionAccountLocked
}
