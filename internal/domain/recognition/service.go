package recognition

import "context"

// RecognitionService fronts the face-recognition engine's WebSocket feed.
type RecognitionService interface {
	GetStatus(ctx context.Context) StatusResponse
	RequestStatus(ctx context.Context) error
	RefreshFaces(ctx context.Context) error
	RegisterFace(ctx context.Context, employeeName string, image []byte) error

	// ReportStatus accepts a status push from the recognizer over HTTP
	ReportStatus(ctx context.Context, req ReportStatusRequest) (StatusResponse, error)
}
