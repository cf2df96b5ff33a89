package handlers

import (
	"net/http"

	"team-task-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler handles HTTP requests for team membership
type MemberHandler struct {
	teamService service.TeamServiceInterface
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(teamService service.TeamServiceInterface) *MemberHandler {
	return &MemberHandler{
		teamService: teamService,
	}
}

// ListMembers handles GET /teams/:id/members
// @Summary List team members
// @Description Get the members of a team, highest role first
// @Tags members
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {array} service.MemberResponse "Successfully retrieved members"
// @Failure 400 {object} ErrorResponse "Invalid team ID"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams/{id}/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	teamID, ok := uuidParam(c, "id", "team")
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(c.Request.Context(), userID, teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddMember handles POST /teams/:id/members
// @Summary Add team member
// @Description Add a user, identified by username or email, to the team as admin or member. Owners and admins only.
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param member body service.AddMemberRequest true "User identifier and role"
// @Success 201 {object} service.MemberResponse "Member added"
// @Failure 400 {object} ErrorResponse "Invalid request or role"
// @Failure 403 {object} ErrorResponse "Not an owner or admin of the team"
// @Failure 404 {object} ErrorResponse "Team or user not found"
// @Failure 409 {object} ErrorResponse "User is already a member"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams/{id}/members [post]
func (h *MemberHandler) AddMember(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	teamID, ok := uuidParam(c, "id", "team")
	if !ok {
		return
	}

	var req service.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	member, err := h.teamService.AddMember(c.Request.Context(), userID, teamID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember handles DELETE /teams/:id/members/:userId
// @Summary Remove team member
// @Description Remove a member from the team and unassign their tasks in it. The owner cannot be removed. Owners and admins only.
// @Tags members
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param userId path string true "User ID (UUID)"
// @Success 200 {object} MessageResponse "Member removed"
// @Failure 400 {object} ErrorResponse "Invalid ID or removing the owner"
// @Failure 403 {object} ErrorResponse "Not an owner or admin of the team"
// @Failure 404 {object} ErrorResponse "Team or member not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams/{id}/members/{userId} [delete]
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	teamID, ok := uuidParam(c, "id", "team")
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), userID, teamID, memberID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Member removed successfully"})
}
