// taskhive/internal/handlers/report_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SprintReportHandler выгружает отчет по спринту в формате XLSX:
// лист с историями и лист с календарем церемоний.
func SprintReportHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}

	var sprint models.Sprint
	err = config.DB.Preload("UserStories").Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("events.date, events.start_time")
	}).First(&sprint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	storiesSheet := "Stories"
	f.SetSheetName("Sheet1", storiesSheet)
	headers := []string{"ID", "Title", "Status", "Priority", "Story Points"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(storiesSheet, cell, h)
	}
	for row, story := range sprint.UserStories {
		f.SetCellValue(storiesSheet, fmt.Sprintf("A%d", row+2), story.ID)
		f.SetCellValue(storiesSheet, fmt.Sprintf("B%d", row+2), story.Title)
		f.SetCellValue(storiesSheet, fmt.Sprintf("C%d", row+2), story.Status)
		f.SetCellValue(storiesSheet, fmt.Sprintf("D%d", row+2), story.Priority)
		f.SetCellValue(storiesSheet, fmt.Sprintf("E%d", row+2), story.StoryPoints)
	}

	ceremoniesSheet := "Ceremonies"
	f.NewSheet(ceremoniesSheet)
	ceremonyHeaders := []string{"Title", "Date", "Start", "End"}
	for i, h := range ceremonyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ceremoniesSheet, cell, h)
	}
	for row, event := range sprint.Events {
		f.SetCellValue(ceremoniesSheet, fmt.Sprintf("A%d", row+2), event.Title)
		f.SetCellValue(ceremoniesSheet, fmt.Sprintf("B%d", row+2), event.Date.Format("2006-01-02"))
		f.SetCellValue(ceremoniesSheet, fmt.Sprintf("C%d", row+2), event.StartTime.Format("15:04"))
		f.SetCellValue(ceremoniesSheet, fmt.Sprintf("D%d", row+2), event.EndTime.Format("15:04"))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sprint_%d_report.xlsx", sprint.ID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		slog.Error("Не удалось записать XLSX-отчет", "error", err, "sprint_id", sprint.ID)
	}
}
