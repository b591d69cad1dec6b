package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// GetSpend returns the current user's spend across settled bills
func GetSpend(c *gin.Context) {
	summary, err := handlerServices.SpendService.SummaryFor(c.Request.Context(), handlerServices.User)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, summary)
}

// GetSettlements returns who owes whom across settled bills
func GetSettlements(c *gin.Context) {
	result, err := handlerServices.SettlementService.CalculateSettlements(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, result)
}

// ExportSpendReport sends the current user's spend as an Excel workbook
func ExportSpendReport(c *gin.Context) {
	excelFile, filename, err := handlerServices.ExcelService.ExportSpendReport(c.Request.Context(), handlerServices.User)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer excelFile.Close()

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	// Write Excel file to response
	if err := excelFile.Write(c.Writer); err != nil {
		logger.GetLogger().Errorw("Failed to write Excel file", "error", err)
	}
}
