package cron

import (
	"context"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
)

const (
	AutoClockOutJob      = "auto_clock_out"
	HolidayAllocationJob = "holiday_hours_allocation"
)

type AttendanceJobs struct {
	attendanceSvc        attendance.AttendanceService
	correctionSvc        hourcorrection.CorrectionService
	autoClockOutInterval time.Duration
	holidayInterval      time.Duration
	now                  func() time.Time
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	correctionSvc hourcorrection.CorrectionService,
	autoClockOutInterval time.Duration,
	holidayInterval time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc:        attendanceSvc,
		correctionSvc:        correctionSvc,
		autoClockOutInterval: autoClockOutInterval,
		holidayInterval:      holidayInterval,
		now:                  time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(AutoClockOutJob, j.autoClockOutInterval, j.AutoClockOut)
	scheduler.AddJob(HolidayAllocationJob, j.holidayInterval, j.AllocateHolidayHours)
}

// AutoClockOut closes sessions of present users past their role's end of day.
func (j *AttendanceJobs) AutoClockOut(ctx context.Context) error {
	_, err := j.attendanceSvc.AutoClockOut(ctx, j.now())
	return err
}

// AllocateHolidayHours credits users on holiday with the day's hours. Repeat
// runs on the same day credit nobody twice.
func (j *AttendanceJobs) AllocateHolidayHours(ctx context.Context) error {
	_, err := j.correctionSvc.AllocateHolidayHours(ctx, j.now())
	return err
}
