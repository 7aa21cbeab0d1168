package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
)

// GroupController handles groups, members, shared trips and comments
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// groupRequest reads the caller and the :id group of a request
func groupRequest(ctx *gin.Context) (userID, groupID int64, ok bool) {
	if userID, ok = currentUserID(ctx); !ok {
		return 0, 0, false
	}
	if groupID, ok = parseIDParam(ctx, "id", "Group"); !ok {
		return 0, 0, false
	}
	return userID, groupID, true
}

// CreateGroup handles POST /groups
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	group, err := c.groupService.CreateGroup(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, group, "Group created successfully")
}

// ListMyGroups handles GET /groups
func (c *GroupController) ListMyGroups(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	groups, err := c.groupService.ListMyGroups(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, groups, "")
}

// GetGroup handles GET /groups/:id
func (c *GroupController) GetGroup(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}

	group, err := c.groupService.GetGroup(ctx.Request.Context(), userID, groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, group, "")
}

// AddMember handles POST /groups/:id/members
func (c *GroupController) AddMember(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	member, err := c.groupService.AddMember(ctx.Request.Context(), userID, groupID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, member, "Member added successfully")
}

// RemoveMember handles DELETE /groups/:id/members/:userId
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(ctx, "userId", "User")
	if !ok {
		return
	}

	if err := c.groupService.RemoveMember(ctx.Request.Context(), userID, groupID, memberID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Member removed successfully")
}

// UpdateMemberRole handles PATCH /groups/:id/members/:userId
func (c *GroupController) UpdateMemberRole(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(ctx, "userId", "User")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	err := c.groupService.UpdateMemberRole(ctx.Request.Context(), userID, groupID, memberID, models.GroupRole(req.Role))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Member role updated successfully")
}

// LeaveGroup handles POST /groups/:id/leave
func (c *GroupController) LeaveGroup(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}

	if err := c.groupService.LeaveGroup(ctx.Request.Context(), userID, groupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Left the group")
}

// ShareTrip handles POST /groups/:id/trips
func (c *GroupController) ShareTrip(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}

	var req dto.ShareTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	share, err := c.groupService.ShareTrip(ctx.Request.Context(), userID, groupID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, share, "Trip shared successfully")
}

// ListSharedTrips handles GET /groups/:id/trips
func (c *GroupController) ListSharedTrips(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}

	shares, err := c.groupService.ListSharedTrips(ctx.Request.Context(), userID, groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, shares, "")
}

// UnshareTrip handles DELETE /groups/:id/trips/:tripId
func (c *GroupController) UnshareTrip(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "tripId", "Trip")
	if !ok {
		return
	}

	if err := c.groupService.UnshareTrip(ctx.Request.Context(), userID, groupID, tripID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Trip removed from group")
}

// AddComment handles POST /groups/:id/trips/:tripId/comments
func (c *GroupController) AddComment(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "tripId", "Trip")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	comment, err := c.groupService.AddComment(ctx.Request.Context(), userID, groupID, tripID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, comment, "Comment added successfully")
}

// ListComments handles GET /groups/:id/trips/:tripId/comments
func (c *GroupController) ListComments(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "tripId", "Trip")
	if !ok {
		return
	}

	comments, err := c.groupService.ListComments(ctx.Request.Context(), userID, groupID, tripID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, comments, "")
}

// DeleteComment handles DELETE /groups/:id/comments/:commentId
func (c *GroupController) DeleteComment(ctx *gin.Context) {
	userID, groupID, ok := groupRequest(ctx)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(ctx, "commentId", "Comment")
	if !ok {
		return
	}

	if err := c.groupService.DeleteComment(ctx.Request.Context(), userID, groupID, commentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Comment deleted successfully")
}
