package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SoarAway/donki-wonki/services"
)

type RouteController struct {
	routes *services.RouteService
}

func NewRouteController(routes *services.RouteService) *RouteController {
	return &RouteController{routes: routes}
}

type SaveRouteInput struct {
	Email               string `json:"email" binding:"required,email"`
	DepartingLocation   string `json:"departing_location" binding:"required"`
	DestinationLocation string `json:"destination_location" binding:"required"`
	DayOfWeek           string `json:"day_of_week" binding:"required"`
	Time                string `json:"time" binding:"required"`
	DepartingStation    string `json:"departing_station" binding:"required"`
	DestinationStation  string `json:"destination_station" binding:"required"`
	RouteDesc           string `json:"route_desc"`
}

func (rc *RouteController) SaveOrUpdate(c *gin.Context) {
	var input SaveRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	routeID, err := rc.routes.SaveOrUpdateRoute(
		input.Email,
		input.DepartingLocation, input.DestinationLocation,
		input.DayOfWeek, input.Time,
		input.DepartingStation, input.DestinationStation,
		input.RouteDesc,
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "route saved successfully", "route_id": routeID})
}

func (rc *RouteController) AllByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	routes, err := rc.routes.RoutesByEmail(email)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

func (rc *RouteController) ByUserID(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	routes, err := rc.routes.RoutesWithSchedules(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

func (rc *RouteController) NextUpcoming(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}
	timestamp, err := strconv.ParseInt(c.Query("timestamp"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must be unix seconds"})
		return
	}

	route, err := rc.routes.NextUpcomingRoute(email, timestamp)
	if err != nil {
		handleError(c, err)
		return
	}
	if route == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no upcoming route found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

type AddScheduleInput struct {
	UserID    string `json:"user_id" binding:"required"`
	RouteID   string `json:"route_id" binding:"required"`
	DayOfWeek string `json:"day_of_week" binding:"required"`
	TimeFrom  string `json:"time_from" binding:"required"`
	TimeTo    string `json:"time_to" binding:"required"`
}

func (rc *RouteController) AddSchedule(c *gin.Context) {
	var input AddScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduleID, err := rc.routes.AddSchedule(input.UserID, input.RouteID, input.DayOfWeek, input.TimeFrom, input.TimeTo)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule added", "schedule_id": scheduleID})
}

func (rc *RouteController) Delete(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	if err := rc.routes.DeleteRoute(email, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route deleted"})
}
