package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/api/metrics"
	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type AnalyticsHandler struct {
	analyticsService ports.AnalyticsService
}

func NewAnalyticsHandler(analyticsService ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard returns revenue, project and invoice rollups. Unknown periods
// fall back to monthly.
//
// @Summary      Analytics dashboard
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "daily, monthly or yearly"  default(monthly)
// @Success      200     {object}  Response{data=domain.Analytics}
// @Failure      403     {object}  ErrorResponse
// @Router       /analytics [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	period := domain.ParsePeriod(c.QueryParam("period"))

	analytics, err := h.analyticsService.Dashboard(c.Request().Context(), period)
	if err != nil {
		return err
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues(string(period)).Inc()
	return respond(c, http.StatusOK, analytics, fmt.Sprintf("Analytics data retrieved for %s period", period))
}
