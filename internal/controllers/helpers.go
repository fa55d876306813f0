package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medwaste_tracker/internal/engine"
	"medwaste_tracker/internal/location"
)

var (
	// Engine and Gate are wired from main at startup.
	Engine *engine.Engine
	Gate   *location.Gate
)

// SetEngine injects the route engine the execution endpoints drive.
func SetEngine(e *engine.Engine) { Engine = e }

// SetGate injects the location gate the fix-push endpoint writes to.
func SetGate(g *location.Gate) { Gate = g }

// repIDFromClaims pulls the representative record ID out of the JWT claims.
func repIDFromClaims(c *gin.Context) uint {
	if v, ok := c.Get("rep_id"); ok {
		if f, ok := v.(float64); ok {
			return uint(f)
		}
	}
	return 0
}

// respondEngineError maps engine failures onto HTTP statuses. Validation
// and precondition failures carry corrective messages; persistence errors
// stay generic and the client may retry the same transition.
func respondEngineError(c *gin.Context, err error) {
	var ve *engine.ValidationError
	var te *engine.TransitionError
	var pe *engine.PersistenceError

	switch {
	case errors.Is(err, location.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "current location unavailable, check GPS and retry"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &te):
		c.JSON(http.StatusConflict, gin.H{"error": te.Error()})
	case errors.As(err, &pe):
		logrus.WithError(err).Error("engine write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "the update could not be saved, please retry"})
	default:
		logrus.WithError(err).Error("unexpected engine failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
