package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/services"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// GetDraft returns the bill being edited
func GetDraft(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.DraftSession.View())
}

// ResetDraft discards the bill being edited
func ResetDraft(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.DraftSession.Reset())
}

// SetDraftTitle handles renaming the draft
func SetDraftTitle(c *gin.Context) {
	var request models.SetTitleRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	handlerServices.DraftSession.SetTitle(request.Title)
	utils.HandleSuccess(c, handlerServices.DraftSession.View())
}

// SetDraftTax handles editing the draft's total tax
func SetDraftTax(c *gin.Context) {
	var request models.SetAmountRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := handlerServices.DraftSession.SetTax(*request.Amount); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, handlerServices.DraftSession.View())
}

// SetDraftServiceCharge handles editing the draft's total service charge
func SetDraftServiceCharge(c *gin.Context) {
	var request models.SetAmountRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := handlerServices.DraftSession.SetServiceCharge(*request.Amount); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, handlerServices.DraftSession.View())
}

// SetDraftParticipants replaces who is on the draft, optionally from a group
func SetDraftParticipants(c *gin.Context) {
	var request models.SetParticipantsRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	personIDs := request.PersonIDs
	if request.GroupID != "" {
		group, err := handlerServices.GroupService.GetGroup(c.Request.Context(), request.GroupID)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		personIDs = append(personIDs, group.MemberIDs...)
	}

	handlerServices.DraftSession.SetParticipants(personIDs)
	utils.HandleSuccess(c, handlerServices.DraftSession.View())
}

// AddDraftItem handles adding a line item
func AddDraftItem(c *gin.Context) {
	var request models.AddItemRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	quantity := 1
	if request.Quantity != nil {
		quantity = *request.Quantity
	}

	item, err := handlerServices.DraftSession.AddItem(request.Name, *request.Price, quantity)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateDraftItem handles editing a line item
func UpdateDraftItem(c *gin.Context) {
	var request models.UpdateItemRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	item, err := handlerServices.DraftSession.UpdateItem(c.Param("id"), services.ItemChanges{
		Name:     request.Name,
		Price:    request.Price,
		Quantity: request.Quantity,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, item)
}

// RemoveDraftItem handles deleting a line item
func RemoveDraftItem(c *gin.Context) {
	if err := handlerServices.DraftSession.RemoveItem(c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleItemAssignment adds or removes a person on a line item
func ToggleItemAssignment(c *gin.Context) {
	var request models.ToggleAssignmentRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	item, err := handlerServices.DraftSession.ToggleAssignment(c.Param("id"), request.PersonID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, item)
}

// GetDraftSplit returns live per-person totals for the draft
func GetDraftSplit(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.DraftSession.Split())
}

// FinalizeDraft saves the draft as a settled bill
func FinalizeDraft(c *gin.Context) {
	bill, err := handlerServices.DraftSession.Finalize(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}
