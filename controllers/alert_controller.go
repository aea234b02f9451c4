package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SoarAway/donki-wonki/services"
)

type AlertController struct {
	alerts *services.AlertService
}

func NewAlertController(alerts *services.AlertService) *AlertController {
	return &AlertController{alerts: alerts}
}

type NotifyInput struct {
	AffectedStations []string `json:"affected_stations" binding:"required"`
	Line             string   `json:"line" binding:"required"`
	IncidentType     string   `json:"incident_type" binding:"required"`
	Description      string   `json:"description"`
	PredictedTime    string   `json:"predicted_time"`
}

// Notify runs the affected-user scan for a fresh incident.
func (ac *AlertController) Notify(c *gin.Context) {
	var input NotifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := ac.alerts.NotifyAffectedUsers(
		input.AffectedStations, input.Line, input.IncidentType,
		input.Description, input.PredictedTime, time.Now(),
	)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "alert created", "alert": alert})
}

type TriggerInput struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

func (ac *AlertController) Trigger(c *gin.Context) {
	var input TriggerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := ac.alerts.Trigger(c.Param("id"), input.Title, input.Body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert re-sent", "alert": alert})
}

type PredictEndInput struct {
	PredictedTime string `json:"predicted_time" binding:"required"`
}

func (ac *AlertController) PredictEnd(c *gin.Context) {
	var input PredictEndInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := ac.alerts.PredictEndTime(c.Param("id"), input.PredictedTime)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "predicted end time updated", "alert": alert})
}

type ExtendInput struct {
	PredictedTime string `json:"predicted_time" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Body          string `json:"body" binding:"required"`
}

func (ac *AlertController) Extend(c *gin.Context) {
	var input ExtendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := ac.alerts.ExtendAndTrigger(c.Param("id"), input.PredictedTime, input.Title, input.Body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "alert extended", "alert": alert})
}

func (ac *AlertController) End(c *gin.Context) {
	alert, err := ac.alerts.End(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert ended", "alert": alert})
}

func (ac *AlertController) Related(c *gin.Context) {
	token := c.Query("device_token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_token query parameter is required"})
		return
	}

	alerts, err := ac.alerts.RelatedAlerts(token)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
