package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
	"golang.org/x/sync/errgroup"
)

const recentRecordsLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	recognitionSvc recognition.RecognitionService
	loc            *time.Location
	now            func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, recognitionSvc recognition.RecognitionService, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		recognitionSvc:      recognitionSvc,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetDashboard runs the three queries in parallel
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	now := s.now().In(s.loc)
	start, end := worktime.DayBounds(now, s.loc)

	var (
		total   int64
		present int64
		recent  []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.CountEmployees(gCtx)
		if err != nil {
			return err
		}
		total = n
		return nil
	})

	g.Go(func() error {
		n, err := s.CountPresent(gCtx, start, end)
		if err != nil {
			return err
		}
		present = n
		return nil
	})

	g.Go(func() error {
		records, err := s.RecentRecords(gCtx, recentRecordsLimit)
		if err != nil {
			return err
		}
		recent = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	absent := total - present
	if absent < 0 {
		absent = 0
	}
	var rate float64
	if total > 0 {
		rate = math.Round(float64(present)/float64(total)*1000) / 10
	}

	resp := dashboard.DashboardResponse{
		Date: now.Format(worktime.DateLayout),
		Summary: dashboard.SummaryResponse{
			TotalEmployees: total,
			PresentToday:   present,
			AbsentToday:    absent,
			AttendanceRate: rate,
			UpdatedAt:      now.Format(time.RFC3339),
		},
		RecentRecords: make([]attendance.RecordResponse, 0, len(recent)),
		Recognition:   s.recognitionSvc.GetStatus(ctx),
	}
	for _, r := range recent {
		r.Timestamp = r.Timestamp.In(s.loc)
		resp.RecentRecords = append(resp.RecentRecords, attendance.ToResponse(r))
	}

	return resp, nil
}
