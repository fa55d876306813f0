package routes

import (
	"medwaste_tracker/internal/controllers"
	"medwaste_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/hospitals", controllers.CreateHospital)
		admin.GET("/hospitals", controllers.ListHospitals)
		admin.PUT("/hospitals/:id", controllers.UpdateHospital)

		admin.POST("/incinerators", controllers.CreateIncinerator)
		admin.GET("/incinerators", controllers.ListIncinerators)
		admin.PUT("/incinerators/:id", controllers.UpdateIncinerator)

		admin.POST("/vehicles", controllers.CreateVehicle)
		admin.GET("/vehicles", controllers.ListVehicles)
		admin.PUT("/vehicles/:id", controllers.UpdateVehicle)
		admin.DELETE("/vehicles/:id", controllers.DeleteVehicle)

		admin.GET("/representatives", controllers.ListRepresentatives)
		admin.GET("/representatives/:id", controllers.GetRepresentative)
		admin.PUT("/representatives/:id", controllers.UpdateRepresentative)

		admin.POST("/routes", controllers.CreateRoute)
		admin.GET("/routes", controllers.ListRoutes)
		admin.GET("/routes/:id", controllers.GetRoute)
		admin.GET("/routes/:id/summary", controllers.RouteSummary)
		admin.GET("/routes/:id/events", controllers.ListRouteEvents)
	}
}
