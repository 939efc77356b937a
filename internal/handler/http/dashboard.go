package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type DashboardHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Summary handles GET /dashboard/summary?date=YYYY-MM-DD
func (h *dashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req := dashboard.SummaryRequest{Date: r.URL.Query().Get("date")}
	if err := validator.Struct(&req).Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
