// Package ledger derives collected/delivered/remaining totals for a route
// from its stop and delivery records. It is a pure view: nothing here is
// persisted, so the figures can never drift from the source rows even when
// a crash lands between the engine's independent writes.
package ledger

import (
	"math"

	"medwaste_tracker/internal/models"
)

// Summary holds the reconciliation figures for one route.
type Summary struct {
	CollectedBags          int     `json:"collected_bags"`
	CollectedPrimaryWeight float64 `json:"collected_primary_weight"`
	CollectedSafetyCount   int     `json:"collected_safety_count"`
	CollectedSafetyWeight  float64 `json:"collected_safety_weight"`

	// Primary bag weight plus safety-box weight.
	GrandTotalCollectedWeight float64 `json:"grand_total_collected_weight"`

	DeliveredBags          int     `json:"delivered_bags"`
	DeliveredPrimaryWeight float64 `json:"delivered_primary_weight"`

	// Safety boxes are never split across deliveries: once any delivery
	// exists, the full safety-box weight counts as delivered alongside it.
	GrandTotalDeliveredWeight float64 `json:"grand_total_delivered_weight"`

	RemainingBags   int     `json:"remaining_bags"`
	RemainingWeight float64 `json:"remaining_weight"`
}

// Totals computes the reconciliation summary from a route's stops and
// deliveries. Stops without a collection record contribute nothing.
func Totals(stops []models.RouteStop, deliveries []models.IncineratorDelivery) Summary {
	var s Summary

	for i := range stops {
		rec := stops[i].Collection
		if rec == nil {
			continue
		}
		s.CollectedBags += rec.BagsCount
		s.CollectedPrimaryWeight += rec.TotalWeight
		s.CollectedSafetyCount += rec.SafetyBoxCount
		s.CollectedSafetyWeight += rec.SafetyBoxWeight
	}
	s.GrandTotalCollectedWeight = round3(s.CollectedPrimaryWeight + s.CollectedSafetyWeight)

	for i := range deliveries {
		s.DeliveredBags += deliveries[i].BagsCount
		s.DeliveredPrimaryWeight += deliveries[i].WeightDelivered
	}
	if len(deliveries) > 0 {
		s.GrandTotalDeliveredWeight = round3(s.DeliveredPrimaryWeight + s.CollectedSafetyWeight)
	}

	s.CollectedPrimaryWeight = round3(s.CollectedPrimaryWeight)
	s.CollectedSafetyWeight = round3(s.CollectedSafetyWeight)
	s.DeliveredPrimaryWeight = round3(s.DeliveredPrimaryWeight)
	s.RemainingBags = s.CollectedBags - s.DeliveredBags
	s.RemainingWeight = round3(s.GrandTotalCollectedWeight - s.GrandTotalDeliveredWeight)

	return s
}

// Deficit reports whether the route does not reconcile: any nonzero
// remainder after completion indicates bags or weight unaccounted for and
// should be surfaced for human review, not silently accepted.
func (s Summary) Deficit() bool {
	return s.RemainingBags != 0 || math.Abs(s.RemainingWeight) > 0.0005
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
