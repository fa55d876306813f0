// Package location implements the gate every mutating route operation must
// pass: a current-position reading for the acting representative. Devices
// push fixes continuously; the gate only ever reads the latest one from
// redis and refuses the operation when none is fresh enough.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable blocks an operation when no fresh position fix exists.
// Nothing is written when the gate refuses; the caller decides whether to
// prompt the representative and retry.
var ErrUnavailable = errors.New("location unavailable")

// RefreshChannel carries best-effort refresh requests to listening devices.
const RefreshChannel = "location:refresh"

// Position is one GPS fix from a representative device.
type Position struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"` // meters
	Timestamp time.Time `json:"timestamp"`
}

// Gate reads the latest fix per representative from redis.
type Gate struct {
	rdb    *redis.Client
	maxAge time.Duration
}

// NewGate builds a gate that accepts fixes no older than maxAge.
func NewGate(rdb *redis.Client, maxAge time.Duration) *Gate {
	if maxAge <= 0 {
		maxAge = 2 * time.Minute
	}
	return &Gate{rdb: rdb, maxAge: maxAge}
}

func fixKey(repID uint) string {
	return fmt.Sprintf("location:fix:%d", repID)
}

// Require returns the representative's latest fix or ErrUnavailable. A
// refused call triggers an asynchronous refresh request so a retry has a
// chance of finding a fix; the gate itself imposes no retry policy.
func (g *Gate) Require(ctx context.Context, repID uint) (Position, error) {
	raw, err := g.rdb.Get(ctx, fixKey(repID)).Result()
	if errors.Is(err, redis.Nil) {
		g.requestRefresh(repID)
		return Position{}, ErrUnavailable
	}
	if err != nil {
		logrus.WithError(err).Warn("location gate: redis read failed")
		g.requestRefresh(repID)
		return Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var p Position
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Position{}, fmt.Errorf("%w: corrupt fix: %v", ErrUnavailable, err)
	}
	if time.Since(p.Timestamp) > g.maxAge {
		g.requestRefresh(repID)
		return Position{}, ErrUnavailable
	}
	return p, nil
}

// Record stores a fix pushed by a device. The key expires at maxAge so a
// silent device naturally falls back to ErrUnavailable.
func (g *Gate) Record(ctx context.Context, repID uint, p Position) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return g.rdb.Set(ctx, fixKey(repID), b, g.maxAge).Err()
}

// requestRefresh asks the device for a new fix, fire-and-forget.
func (g *Gate) requestRefresh(repID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.rdb.Publish(ctx, RefreshChannel, repID).Err(); err != nil {
			logrus.WithError(err).Debug("location gate: refresh publish failed")
		}
	}()
}
