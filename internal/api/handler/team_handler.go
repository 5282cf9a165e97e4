package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type TeamHandler struct {
	teamService ports.TeamService
}

func NewTeamHandler(teamService ports.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// @Summary      List teams
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.TeamDetail}
// @Failure      403  {object}  ErrorResponse
// @Router       /teams [get]
func (h *TeamHandler) List(c echo.Context) error {
	teams, err := h.teamService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, teams, "Teams retrieved successfully")
}

// ListMine returns the teams the caller leads or belongs to.
//
// @Summary      List my teams
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.TeamDetail}
// @Failure      401  {object}  ErrorResponse
// @Router       /teams/my-teams [get]
func (h *TeamHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	teams, err := h.teamService.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, teams, "Teams retrieved successfully")
}

// @Summary      Create team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTeamRequest  true  "Team details"
// @Success      201   {object}  Response
// @Failure      400   {object}  ErrorResponse
// @Router       /teams [post]
func (h *TeamHandler) Create(c echo.Context) error {
	var req createTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	team, err := h.teamService.Create(c.Request().Context(), ports.CreateTeamInput{
		Name:      req.Name,
		LeaderID:  req.Leader,
		MemberIDs: req.Members,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, team, "Team created successfully")
}

// @Summary      Update team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Team ID"
// @Param        body  body      updateTeamRequest  true  "Fields to change"
// @Success      200   {object}  Response
// @Failure      404   {object}  ErrorResponse
// @Router       /teams/{id} [put]
func (h *TeamHandler) Update(c echo.Context) error {
	var req updateTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	team, err := h.teamService.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, team, "Team updated successfully")
}

// @Summary      Delete team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Team ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /teams/{id} [delete]
func (h *TeamHandler) Delete(c echo.Context) error {
	if err := h.teamService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "Team deleted successfully")
}
