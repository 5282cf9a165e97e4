package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/api/metrics"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type ClientHandler struct {
	clientService ports.ClientService
}

func NewClientHandler(clientService ports.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List returns every client with its creator.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.ClientDetail}
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.clientService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, clients, "Clients retrieved successfully")
}

// Create stores a client owned by the caller and notifies live connections.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  Response
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.clientService.Create(c.Request().Context(), user, ports.CreateClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
	})
	if err != nil {
		return err
	}
	metrics.ClientsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, client, "Client created successfully")
}

// Update applies a partial update to a client.
//
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  Response
// @Failure      404   {object}  ErrorResponse
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	client, err := h.clientService.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, client, "Client updated successfully")
}

// Delete removes a client.
//
// @Summary      Delete client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clientService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "Client deleted successfully")
}
