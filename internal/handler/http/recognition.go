package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
)

type RecognitionHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	RefreshFaces(w http.ResponseWriter, r *http.Request)
	ReportStatus(w http.ResponseWriter, r *http.Request)
}

type recognitionHandlerImpl struct {
	recognitionService recognition.RecognitionService
}

func NewRecognitionHandler(recognitionService recognition.RecognitionService) RecognitionHandler {
	return &recognitionHandlerImpl{recognitionService: recognitionService}
}

// Status handles GET /recognition/status
func (h *recognitionHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.recognitionService.GetStatus(r.Context()))
}

// RefreshFaces handles POST /recognition/refresh
func (h *recognitionHandlerImpl) RefreshFaces(w http.ResponseWriter, r *http.Request) {
	if err := h.recognitionService.RefreshFaces(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Face refresh requested", nil)
}

// ReportStatus handles POST /recognition/status
func (h *recognitionHandlerImpl) ReportStatus(w http.ResponseWriter, r *http.Request) {
	var req recognition.ReportStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.recognitionService.ReportStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
