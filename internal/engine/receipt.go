package engine

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"medwaste_tracker/internal/models"
)

// snapshotReceipt freezes the printable-receipt payload for a collection
// under its deterministic number. The receipt renderer consumes the
// snapshot verbatim so later edits to hospitals or rates never change a
// document already handed to a client. A failed snapshot does not undo the
// collection; reprint requests recreate it from the same source rows.
func (e *Engine) snapshotReceipt(ctx context.Context, route *models.Route, stop *models.RouteStop, rec *models.CollectionRecord) {
	payload := map[string]any{
		"route_id":          route.ID,
		"route_date":        route.Date,
		"hospital_id":       stop.HospitalID,
		"stop_order":        stop.StopOrder,
		"waste_categories":  rec.WasteCategories,
		"bags_count":        rec.BagsCount,
		"total_weight":      rec.TotalWeight,
		"safety_box_count":  rec.SafetyBoxCount,
		"safety_box_weight": rec.SafetyBoxWeight,
		"collected_at":      rec.CollectedAt,
		"client_signature":  rec.ClientSignature,
		"rep_signature":     rec.RepSignature,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("stop_id", stop.ID).Warn("receipt payload marshal failed")
		return
	}

	snap := &models.ReceiptSnapshot{
		ReceiptNumber: ReceiptNumber(rec.CollectedAt.Year(), stop.ID),
		RouteStopID:   stop.ID,
		Payload:       string(b),
	}
	if err := e.store.CreateReceipt(ctx, snap); err != nil {
		logrus.WithError(err).WithField("stop_id", stop.ID).Warn("receipt snapshot not persisted")
	}
}
