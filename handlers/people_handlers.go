package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// ListPeople returns the current user's friends
func ListPeople(c *gin.Context) {
	people, err := handlerServices.PersonService.ListFriends(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, people)
}

// CreatePerson adds a friend
func CreatePerson(c *gin.Context) {
	var request models.CreatePersonRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	person, err := handlerServices.PersonService.AddFriend(c.Request.Context(), request.Name)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

// DeletePerson removes a friend
func DeletePerson(c *gin.Context) {
	if err := handlerServices.PersonService.RemoveFriend(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListGroups returns all saved groups
func ListGroups(c *gin.Context) {
	groups, err := handlerServices.GroupService.ListGroups(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, groups)
}

// CreateGroup saves a group of people
func CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := handlerServices.GroupService.CreateGroup(c.Request.Context(), request.Name, request.MemberIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// DeleteGroup removes a group
func DeleteGroup(c *gin.Context) {
	if err := handlerServices.GroupService.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
