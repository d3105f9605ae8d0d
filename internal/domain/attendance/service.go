package attendance

import "context"

type AttendanceService interface {
	// RecordAttendance stores an entry or exit, enforcing the per-employee cooldown
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (RecordResponse, error)
	ListRecords(ctx context.Context, filter AttendanceFilter) (ListRecordResponse, error)
	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	DeleteRecord(ctx context.Context, id string) error
	UploadSnapshot(ctx context.Context, req UploadSnapshotRequest) (RecordResponse, error)
}
