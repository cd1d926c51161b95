package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/usecase/report"
)

// ReportService определяет интерфейс для сервиса отчетности
type ReportService interface {
	GetDashboard(ctx context.Context) (*report.Dashboard, error)
	GetProfit(ctx context.Context, year int, month time.Month) (*report.ProfitReport, error)
}

// DashboardHandler обрабатывает запросы дашборда и отчетов
type DashboardHandler struct {
	reportService ReportService
	logger        logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(reportService ReportService, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetDashboard возвращает сводку главного экрана
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportService.GetDashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    dashboard,
	})
}

// GetProfit возвращает отчет по прибыли
// GET /api/v1/reports/profit?year=&month=
func (h *DashboardHandler) GetProfit(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)

	// Год и месяц идут парой: без них отчет считается за все время
	if (year == 0) != (month == 0) || month < 0 || month > 12 {
		respondError(w, http.StatusBadRequest, "Both year and month are required for a monthly report")
		return
	}

	profit, err := h.reportService.GetProfit(r.Context(), year, time.Month(month))
	if err != nil {
		h.logger.Error("Failed to build profit report", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to build profit report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    profit,
	})
}
