package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

var billOrders = map[string]repository.BillOrder{
	"":       repository.NewestFirst,
	"newest": repository.NewestFirst,
	"oldest": repository.OldestFirst,
	"title":  repository.ByTitle,
}

// ListBills returns the bill history, ordered by ?order=newest|oldest|title
func ListBills(c *gin.Context) {
	order, ok := billOrders[c.Query("order")]
	if !ok {
		utils.HandleError(c, utils.NewBadRequestError("order must be newest, oldest or title"))
		return
	}

	bills, err := handlerServices.BillService.ListBills(c.Request.Context(), order)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, bills)
}

// GetBill returns one bill with its participants and split
func GetBill(c *gin.Context) {
	detail, err := handlerServices.BillService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, detail)
}

// DeleteBill removes a bill from the history
func DeleteBill(c *gin.Context) {
	if err := handlerServices.BillService.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
