package http

import (
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Staff log
	DailySummary(w http.ResponseWriter, r *http.Request)
	ExportDaily(w http.ResponseWriter, r *http.Request)

	// Person log
	PersonMonthly(w http.ResponseWriter, r *http.Request)
	ExportPersonMonthly(w http.ResponseWriter, r *http.Request)
	PersonCalendar(w http.ResponseWriter, r *http.Request)
	DailyActivities(w http.ResponseWriter, r *http.Request)
	ExportDailyActivities(w http.ResponseWriter, r *http.Request)
	DateSpecific(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func personRangeFrom(r *http.Request) report.PersonRangeRequest {
	return report.PersonRangeRequest{
		EmployeeID: chi.URLParam(r, "id"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}
}

func personDateFrom(r *http.Request) report.PersonDateRequest {
	return report.PersonDateRequest{
		EmployeeID: chi.URLParam(r, "id"),
		Date:       r.URL.Query().Get("date"),
	}
}

// DailySummary handles GET /reports/daily
func (h *reportHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DailySummary(r.Context(), report.DailyReportRequest{
		Date: r.URL.Query().Get("date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportDaily handles GET /reports/daily/export
func (h *reportHandlerImpl) ExportDaily(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportDaily(r.Context(), report.ExportDailyRequest{
		Date:   r.URL.Query().Get("date"),
		Format: r.URL.Query().Get("format"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}

// PersonMonthly handles GET /reports/employees/{id}/monthly
func (h *reportHandlerImpl) PersonMonthly(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PersonMonthly(r.Context(), personRangeFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPersonMonthly handles GET /reports/employees/{id}/monthly/export
func (h *reportHandlerImpl) ExportPersonMonthly(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportPersonMonthly(r.Context(), report.ExportPersonMonthlyRequest{
		PersonRangeRequest: personRangeFrom(r),
		Format:             r.URL.Query().Get("format"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}

// PersonCalendar handles GET /reports/employees/{id}/calendar
func (h *reportHandlerImpl) PersonCalendar(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PersonCalendar(r.Context(), report.PersonCalendarRequest{
		EmployeeID: chi.URLParam(r, "id"),
		Month:      r.URL.Query().Get("month"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DailyActivities handles GET /reports/employees/{id}/activities
func (h *reportHandlerImpl) DailyActivities(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DailyActivities(r.Context(), personDateFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportDailyActivities handles GET /reports/employees/{id}/activities/export
func (h *reportHandlerImpl) ExportDailyActivities(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportDailyActivities(r.Context(), personDateFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}

// DateSpecific handles GET /reports/employees/{id}/daily
func (h *reportHandlerImpl) DateSpecific(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DateSpecific(r.Context(), personDateFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
