package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoarAway/donki-wonki/controllers"
)

type Controllers struct {
	Users    *controllers.UserController
	Routes   *controllers.RouteController
	Alerts   *controllers.AlertController
	Reports  *controllers.ReportController
	Realtime *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Donki-Wonki API"})
	})

	users := r.Group("/users")
	{
		users.POST("/register", ctrl.Users.Register)
		users.POST("/login", ctrl.Users.Login)
		users.POST("/device-token", ctrl.Users.UpdateDeviceToken)
	}

	routes := r.Group("/routes")
	{
		routes.POST("/save-or-update", ctrl.Routes.SaveOrUpdate)
		routes.GET("/all-by-email", ctrl.Routes.AllByEmail)
		routes.GET("/by-user-id", ctrl.Routes.ByUserID)
		routes.GET("/next-upcoming", ctrl.Routes.NextUpcoming)
		routes.POST("/add-schedule", ctrl.Routes.AddSchedule)
		routes.DELETE("/:id", ctrl.Routes.Delete)
	}

	alerts := r.Group("/alerts")
	{
		alerts.POST("/notify", ctrl.Alerts.Notify)
		alerts.POST("/:id/trigger", ctrl.Alerts.Trigger)
		alerts.POST("/:id/predict-end", ctrl.Alerts.PredictEnd)
		alerts.POST("/:id/extend", ctrl.Alerts.Extend)
		alerts.DELETE("/:id", ctrl.Alerts.End)
		alerts.GET("/related", ctrl.Alerts.Related)
	}

	reports := r.Group("/report")
	{
		reports.POST("/send", ctrl.Reports.Send)
		reports.GET("/top3", ctrl.Reports.Top3)
	}

	r.GET("/ws/alerts", ctrl.Realtime.Alerts)

	return r
}
