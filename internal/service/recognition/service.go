package recognition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/feed"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
)

// Feed is the part of feed.Client the service drives.
type Feed interface {
	Status() feed.Status
	Connected() bool
	RecentAttendance() []feed.AttendanceEvent
	UpdateStatus(registeredFaces, connectedClients int)
	RequestStatus() error
	RefreshFaces() error
	AddEmployee(employeeName string, image []byte) error
}

// Broadcaster fans events out to dashboard subscribers.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type RecognitionServiceImpl struct {
	feed Feed
	hub  Broadcaster
}

func NewRecognitionService(f Feed, hub Broadcaster) recognition.RecognitionService {
	return &RecognitionServiceImpl{feed: f, hub: hub}
}

// NewFeedHandler republishes every recognizer message to the SSE hub.
func NewFeedHandler(hub Broadcaster) feed.Handler {
	return func(msgType string, payload interface{}) {
		switch msgType {
		case feed.TypeAttendance:
			event, _ := payload.(feed.AttendanceEvent)
			slog.Info("Recognizer attendance event", "employee_name", event.EmployeeName, "entry_type", event.EntryType)
			hub.Broadcast(sse.EventAttendance, toAttendanceEvent(event))
		case feed.TypeStatus:
			hub.Broadcast(sse.EventRecognitionStatus, payload)
		case feed.TypeAddEmployeeResponse:
			hub.Broadcast(sse.EventAddEmployeeResponse, payload)
		case feed.TypeRefreshFacesResponse:
			hub.Broadcast(sse.EventRefreshFacesResponse, payload)
		}
	}
}

func toAttendanceEvent(e feed.AttendanceEvent) recognition.AttendanceEvent {
	return recognition.AttendanceEvent{
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		EntryType:    e.EntryType,
		Timestamp:    e.Timestamp,
	}
}

func mapFeedError(err error) error {
	if errors.Is(err, feed.ErrNotConnected) {
		return recognition.ErrRecognizerUnavailable
	}
	return err
}

// GetStatus implements recognition.RecognitionService.
func (s *RecognitionServiceImpl) GetStatus(ctx context.Context) recognition.StatusResponse {
	status := s.feed.Status()
	recent := s.feed.RecentAttendance()

	resp := recognition.StatusResponse{
		Connected:        s.feed.Connected(),
		RegisteredFaces:  status.RegisteredFaces,
		ConnectedClients: status.ConnectedClients,
		RecentEvents:     make([]recognition.AttendanceEvent, 0, len(recent)),
	}
	if !status.UpdatedAt.IsZero() {
		updatedAt := status.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updatedAt
	}
	for _, e := range recent {
		resp.RecentEvents = append(resp.RecentEvents, toAttendanceEvent(e))
	}
	return resp
}

// RequestStatus implements recognition.RecognitionService.
func (s *RecognitionServiceImpl) RequestStatus(ctx context.Context) error {
	return mapFeedError(s.feed.RequestStatus())
}

// RefreshFaces implements recognition.RecognitionService.
func (s *RecognitionServiceImpl) RefreshFaces(ctx context.Context) error {
	if err := s.feed.RefreshFaces(); err != nil {
		return mapFeedError(err)
	}
	slog.Info("Requested recognizer face refresh")
	return nil
}

// RegisterFace implements recognition.RecognitionService.
func (s *RecognitionServiceImpl) RegisterFace(ctx context.Context, employeeName string, image []byte) error {
	if err := s.feed.AddEmployee(employeeName, image); err != nil {
		if mapped := mapFeedError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to register face: %w", err)
	}
	slog.Info("Sent face to recognizer", "employee_name", employeeName, "bytes", len(image))
	return nil
}

// ReportStatus implements recognition.RecognitionService.
func (s *RecognitionServiceImpl) ReportStatus(ctx context.Context, req recognition.ReportStatusRequest) (recognition.StatusResponse, error) {
	if err := req.Validate(); err != nil {
		return recognition.StatusResponse{}, err
	}

	s.feed.UpdateStatus(req.RegisteredFaces, req.ConnectedClients)
	s.hub.Broadcast(sse.EventRecognitionStatus, feed.StatusMessage{
		Type:             feed.TypeStatus,
		RegisteredFaces:  req.RegisteredFaces,
		ConnectedClients: req.ConnectedClients,
	})

	return s.GetStatus(ctx), nil
}
