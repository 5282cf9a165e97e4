package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/api/metrics"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type InvoiceHandler struct {
	invoiceService ports.InvoiceService
}

func NewInvoiceHandler(invoiceService ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]ports.InvoiceDetail}
// @Failure      403  {object}  ErrorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	invoices, err := h.invoiceService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, invoices, "Invoices retrieved")
}

// Create stores an invoice; the invoice number is assigned by the server.
//
// @Summary      Create invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvoiceRequest  true  "Invoice details"
// @Success      201   {object}  Response
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	metrics.InvoicesCreatedTotal.WithLabelValues(string(invoice.Status)).Inc()
	return respond(c, http.StatusCreated, invoice, "Invoice created")
}

// @Summary      Update invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Invoice ID"
// @Param        body  body      updateInvoiceRequest  true  "Fields to change"
// @Success      200   {object}  Response
// @Failure      404   {object}  ErrorResponse
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c echo.Context) error {
	var req updateInvoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, invoice, "Invoice updated")
}

// @Summary      Delete invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	if err := h.invoiceService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "Invoice deleted")
}
