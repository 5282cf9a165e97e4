package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns every project.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.ProjectDetail}
// @Failure      403  {object}  ErrorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.projectService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, projects, "Projects retrieved")
}

// ListMine returns the projects assigned to a team the caller belongs to.
//
// @Summary      List my projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.ProjectDetail}
// @Failure      401  {object}  ErrorResponse
// @Router       /projects/my-projects [get]
func (h *ProjectHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projects, err := h.projectService.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, projects, "Projects retrieved")
}

// Create stores a project.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  Response
// @Failure      400   {object}  ErrorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	project, err := h.projectService.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, project, "Project created")
}

// Update applies a partial update to a project.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  Response
// @Failure      404   {object}  ErrorResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req updateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	project, err := h.projectService.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, project, "Project updated")
}

// Delete removes a project.
//
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.projectService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "Project deleted")
}
