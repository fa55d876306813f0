package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/engine"
	"medwaste_tracker/internal/models"
)

// Handlers for the field app. Every one of these goes through the route
// engine, which gates on location and enforces the state machines; the
// controller layer only parses input and maps errors.

func routeIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return 0, false
	}
	return uint(id), true
}

// StartRoute moves the representative's route to in_progress.
func StartRoute(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	route, err := Engine.StartRoute(c.Request.Context(), routeID, repIDFromClaims(c))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

// ArriveStop marks arrival at the hospital named in the body.
func ArriveStop(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	var input struct {
		StopID uint `json:"stop_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stop, err := Engine.ArriveStop(c.Request.Context(), input.StopID, repIDFromClaims(c))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if stop.RouteID != routeID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stop does not belong to this route"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stop": stop})
}

// RecordCollection captures the stop's collection data.
func RecordCollection(c *gin.Context) {
	if _, ok := routeIDParam(c); !ok {
		return
	}
	var input struct {
		StopID uint `json:"stop_id" binding:"required"`
		engine.CollectionInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := Engine.RecordCollection(c.Request.Context(), input.StopID, repIDFromClaims(c), input.CollectionInput)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"collection":     rec,
		"receipt_number": engine.ReceiptNumber(rec.CollectedAt.Year(), input.StopID),
	})
}

// DepartStop closes out the stop after its collection is recorded.
func DepartStop(c *gin.Context) {
	if _, ok := routeIDParam(c); !ok {
		return
	}
	var input struct {
		StopID uint `json:"stop_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stop, err := Engine.DepartStop(c.Request.Context(), input.StopID, repIDFromClaims(c))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stop": stop})
}

// AttachPhoto stores proof-of-collection imagery on a stop.
func AttachPhoto(c *gin.Context) {
	if _, ok := routeIDParam(c); !ok {
		return
	}
	var input struct {
		StopID uint   `json:"stop_id" binding:"required"`
		Image  string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stop, err := Engine.AttachPhoto(c.Request.Context(), input.StopID, repIDFromClaims(c), input.Image)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stop": stop})
}

// DeliveryDefaults prefills the delivery form with the ledger's view of
// what is still on the truck.
func DeliveryDefaults(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	bags, weight, err := Engine.DeliveryDefaults(c.Request.Context(), routeID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bags_count": bags, "weight_delivered": weight})
}

// RecordDelivery books a hand-off to an incinerator.
func RecordDelivery(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	var input engine.DeliveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delivery, summary, err := Engine.RecordDelivery(c.Request.Context(), routeID, repIDFromClaims(c), input)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"delivery": delivery, "summary": summary})
}

// CompleteRoute finishes the route and returns the final reconciliation.
func CompleteRoute(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	var input struct {
		Notes string `json:"notes"`
	}
	// Body is optional for completion.
	_ = c.ShouldBindJSON(&input)

	res, err := Engine.CompleteRoute(c.Request.Context(), routeID, repIDFromClaims(c), input.Notes)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"route":   toRouteResponse(*res.Route),
		"summary": res.Summary,
		"deficit": res.Deficit,
	})
}

// CancelRoute abandons a route with a mandatory reason.
func CancelRoute(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route, err := Engine.CancelRoute(c.Request.Context(), routeID, repIDFromClaims(c), input.Reason)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

// RouteSummary returns the live reconciliation ledger for a route.
func RouteSummary(c *gin.Context) {
	routeID, ok := routeIDParam(c)
	if !ok {
		return
	}
	summary, err := Engine.RouteSummary(c.Request.Context(), routeID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "deficit": summary.Deficit()})
}

// GetReceipt returns the frozen receipt snapshot for a collected stop.
func GetReceipt(c *gin.Context) {
	stopID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stop ID"})
		return
	}

	var receipt models.ReceiptSnapshot
	if err := config.DB.Where("route_stop_id = ?", stopID).First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}
