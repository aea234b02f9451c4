package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoarAway/donki-wonki/services"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

type SendReportInput struct {
	Line         string `json:"line" binding:"required"`
	Station      string `json:"station" binding:"required"`
	IncidentType string `json:"incident_type" binding:"required"`
	Description  string `json:"description"`
}

func (rc *ReportController) Send(c *gin.Context) {
	var input SendReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reportID, err := rc.reports.SendReport(input.Line, input.Station, input.IncidentType, input.Description)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "report sent successfully", "report_id": reportID})
}

func (rc *ReportController) Top3(c *gin.Context) {
	reports, err := rc.reports.TopReports()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
