// Package tracking appends audit events for every engine state transition.
// Events are pure history: they are never mutated, never deleted, and never
// drive behavior. Each durable insert is mirrored onto a NATS subject so
// audit dashboards can follow the stream live.
package tracking

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"medwaste_tracker/internal/models"
)

// SubjectPrefix is the NATS subject root; the event type is appended,
// e.g. tracking.events.arrived_hospital.
const SubjectPrefix = "tracking.events."

// Recorder persists tracking events and publishes them best-effort.
type Recorder struct {
	db *gorm.DB
	nc *nats.Conn
}

// NewRecorder builds a Recorder. nc may be nil; the stream is then skipped.
func NewRecorder(db *gorm.DB, nc *nats.Conn) *Recorder {
	return &Recorder{db: db, nc: nc}
}

// Record inserts the event row and mirrors it onto the stream. The insert
// error is returned so callers can log it; publish failures are swallowed
// since the row is the source of truth.
func (r *Recorder) Record(ctx context.Context, ev *models.TrackingLogEvent) error {
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return err
	}
	r.publish(ev)
	return nil
}

func (r *Recorder) publish(ev *models.TrackingLogEvent) {
	if r.nc == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := r.nc.Publish(SubjectPrefix+ev.EventType, b); err != nil {
		logrus.WithError(err).WithField("event_type", ev.EventType).
			Debug("tracking stream publish failed")
	}
}
