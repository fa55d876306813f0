package routes

import (
	"medwaste_tracker/internal/controllers"
	"medwaste_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RepRoutes wires the field surface: everything a representative tablet
// calls while running a route.
func RepRoutes(r *gin.Engine) {
	rep := r.Group("/rep")
	rep.Use(middleware.RequireAuthWithRole("representative"))
	{
		rep.POST("/location", controllers.PushLocation)

		rep.GET("/routes", controllers.ListMyRoutes)
		rep.GET("/routes/:id", controllers.GetRoute)
		rep.GET("/routes/:id/summary", controllers.RouteSummary)

		rep.POST("/routes/:id/start", controllers.StartRoute)
		rep.POST("/routes/:id/arrive", controllers.ArriveStop)
		rep.POST("/routes/:id/collect", controllers.RecordCollection)
		rep.POST("/routes/:id/depart", controllers.DepartStop)
		rep.POST("/routes/:id/photo", controllers.AttachPhoto)

		rep.GET("/routes/:id/delivery-defaults", controllers.DeliveryDefaults)
		rep.POST("/routes/:id/delivery", controllers.RecordDelivery)

		rep.POST("/routes/:id/complete", controllers.CompleteRoute)
		rep.POST("/routes/:id/cancel", controllers.CancelRoute)

		rep.GET("/stops/:id/receipt", controllers.GetReceipt)
	}
}
