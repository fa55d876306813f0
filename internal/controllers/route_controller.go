package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteResponse mirrors models.Route but carries Geometry as a GeoJSON
// string for API output.
type RouteResponse struct {
	ID                       uint                         `json:"ID"`
	CreatedAt                time.Time                    `json:"CreatedAt"`
	UpdatedAt                time.Time                    `json:"UpdatedAt"`
	Date                     time.Time                    `json:"date"`
	RepresentativeID         uint                         `json:"representative_id"`
	VehicleID                uint                         `json:"vehicle_id"`
	IncineratorID            uint                         `json:"incinerator_id"`
	RouteType                models.RouteType             `json:"route_type"`
	Status                   models.RouteStatus           `json:"status"`
	StartedAt                *time.Time                   `json:"started_at"`
	EndedAt                  *time.Time                   `json:"ended_at"`
	TotalWeightCollected     float64                      `json:"total_weight_collected"`
	RemainingWeight          float64                      `json:"remaining_weight"`
	RemainingBags            int                          `json:"remaining_bags"`
	FinalWeightAtIncinerator float64                      `json:"final_weight_at_incinerator"`
	Notes                    string                       `json:"notes"`
	Geometry                 string                       `json:"geometry"`
	Stops                    []models.RouteStop           `json:"stops"`
	Deliveries               []models.IncineratorDelivery `json:"deliveries"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return RouteResponse{
		ID:                       route.ID,
		CreatedAt:                route.CreatedAt,
		UpdatedAt:                route.UpdatedAt,
		Date:                     route.Date,
		RepresentativeID:         route.RepresentativeID,
		VehicleID:                route.VehicleID,
		IncineratorID:            route.IncineratorID,
		RouteType:                route.RouteType,
		Status:                   route.Status,
		StartedAt:                route.StartedAt,
		EndedAt:                  route.EndedAt,
		TotalWeightCollected:     route.TotalWeightCollected,
		RemainingWeight:          route.RemainingWeight,
		RemainingBags:            route.RemainingBags,
		FinalWeightAtIncinerator: route.FinalWeightAtIncinerator,
		Notes:                    route.Notes,
		Geometry:                 jsonGeom,
		Stops:                    route.Stops,
		Deliveries:               route.Deliveries,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateRoute lets dispatch plan a route: date, crew, target incinerator
// and the ordered hospital stops. Stop order comes from dispatch and is
// never recomputed here.
func CreateRoute(c *gin.Context) {
	var input struct {
		Date             time.Time        `json:"date" binding:"required"`
		RepresentativeID uint             `json:"representative_id" binding:"required"`
		VehicleID        uint             `json:"vehicle_id" binding:"required"`
		IncineratorID    uint             `json:"incinerator_id"`
		RouteType        models.RouteType `json:"route_type"`
		Notes            string           `json:"notes"`
		Geometry         string           `json:"geometry"` // GeoJSON LINESTRING
		Stops            []struct {
			HospitalID uint `json:"hospital_id" binding:"required"`
			StopOrder  int  `json:"stop_order" binding:"required"`
		} `json:"stops"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	routeType := input.RouteType
	if routeType == "" {
		routeType = models.RouteCollection
	}
	if routeType == models.RouteCollection {
		if input.IncineratorID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "collection routes need a default incinerator"})
			return
		}
		if len(input.Stops) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "collection routes need at least one stop"})
			return
		}
	}

	// Stop orders must be unique and contiguous from 1.
	seen := make(map[int]bool, len(input.Stops))
	for _, s := range input.Stops {
		if s.StopOrder < 1 || s.StopOrder > len(input.Stops) || seen[s.StopOrder] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stop_order values must be unique and contiguous from 1"})
			return
		}
		seen[s.StopOrder] = true
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	route := models.Route{
		Date:             input.Date,
		RepresentativeID: input.RepresentativeID,
		VehicleID:        input.VehicleID,
		IncineratorID:    input.IncineratorID,
		RouteType:        routeType,
		Status:           models.RoutePending,
		Notes:            input.Notes,
		Geometry:         wkbGeom,
	}
	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	for _, s := range input.Stops {
		stop := models.RouteStop{
			RouteID:    route.ID,
			HospitalID: s.HospitalID,
			StopOrder:  s.StopOrder,
			Status:     models.StopPending,
		}
		if err := tx.Create(&stop).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create stop failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	config.DB.Preload("Stops").Preload("Stops.Hospital").First(&route, route.ID)
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// ListRoutes returns all routes, optionally filtered by status or date.
func ListRoutes(c *gin.Context) {
	q := config.DB.Preload("Stops").Preload("Deliveries").Preload("Representative").Preload("Incinerator")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		q = q.Where("DATE(date) = ?", date)
	}

	var routes []models.Route
	if err := q.Order("date DESC").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	routeResponses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

// GetRoute returns a single route with stops, collections and deliveries.
func GetRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	err = config.DB.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Preload("Stops.Hospital").
		Preload("Stops.Collection").
		Preload("Deliveries").
		Preload("Representative").
		Preload("Incinerator").
		First(&route, rID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("GetRoute: database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// ListMyRoutes returns the authenticated representative's routes, newest
// first. The field app calls this each morning for the day's assignments.
func ListMyRoutes(c *gin.Context) {
	repID := repIDFromClaims(c)

	q := config.DB.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Preload("Stops.Hospital").
		Preload("Incinerator").
		Where("representative_id = ?", repID)
	if date := c.Query("date"); date != "" {
		q = q.Where("DATE(date) = ?", date)
	}

	var routes []models.Route
	if err := q.Order("date DESC").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching routes"})
		return
	}

	routeResponses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}
