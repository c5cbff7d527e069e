package workinghours

import (
	"context"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() workinghours.WorkingHoursService {
	return NewWorkingHoursService(memory.NewStore().WorkingHours())
}

func TestWorkingHoursService_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	// Act
	saved, err := svc.Upsert(ctx, workinghours.UpsertRequest{DayOfWeek: 1, Role: "office", StartTime: "08:00", EndTime: "17:00", Timezone: "UTC"})
	require.NoError(t, err)

	// Overwrite the same key
	updated, err := svc.Upsert(ctx, workinghours.UpsertRequest{DayOfWeek: 1, Role: "office", StartTime: "09:00", EndTime: "18:00", Timezone: "UTC"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, saved.ID, updated.ID)
	got, err := svc.GetHours(ctx, user.RoleOffice, "Monday")
	require.NoError(t, err)
	assert.Equal(t, "09:00", got.Start)
	assert.Equal(t, "18:00", got.End)

	got, err = svc.GetHours(ctx, user.RoleOffice, "1")
	require.NoError(t, err)
	assert.Equal(t, "09:00", got.Start)

	_, err = svc.GetHours(ctx, user.RoleOffice, "tuesday")
	assert.ErrorIs(t, err, workinghours.ErrWorkingHoursNotFound)

	_, err = svc.GetHours(ctx, user.RoleOffice, "someday")
	assert.ErrorIs(t, err, workinghours.ErrInvalidDay)
}

func TestWorkingHoursService_Upsert_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tests := []struct {
		name  string
		req   workinghours.UpsertRequest
		field string
	}{
		{"bad day", workinghours.UpsertRequest{DayOfWeek: 8, Role: "office", StartTime: "08:00", EndTime: "17:00"}, "day_of_week"},
		{"bad role", workinghours.UpsertRequest{DayOfWeek: 1, Role: "janitor", StartTime: "08:00", EndTime: "17:00"}, "user_role"},
		{"bad time", workinghours.UpsertRequest{DayOfWeek: 1, Role: "office", StartTime: "8am", EndTime: "17:00"}, "start_time"},
		{"end before start", workinghours.UpsertRequest{DayOfWeek: 1, Role: "office", StartTime: "17:00", EndTime: "08:00"}, "end_time"},
		{"bad timezone", workinghours.UpsertRequest{DayOfWeek: 1, Role: "office", StartTime: "08:00", EndTime: "17:00", Timezone: "Mars/Olympus"}, "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tt.req)
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestWorkingHoursService_IsWithinWorkingHours(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.Upsert(ctx, workinghours.UpsertRequest{DayOfWeek: 3, Role: "teaching", StartTime: "07:30", EndTime: "16:30", Timezone: "UTC"})
	require.NoError(t, err)

	tests := []struct {
		clock  string
		within bool
	}{
		{"07:29", false},
		{"07:30", true},
		{"12:00", true},
		{"16:30", true},
		{"16:31", false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			ok, err := svc.IsWithinWorkingHours(ctx, user.RoleTeaching, "wednesday", tt.clock)
			require.NoError(t, err)
			assert.Equal(t, tt.within, ok)
		})
	}

	_, err = svc.IsWithinWorkingHours(ctx, user.RoleTeaching, "wednesday", "noon")
	assert.ErrorIs(t, err, workinghours.ErrInvalidTime)
}

func TestWorkingHoursService_ListAndConfigFor(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.Upsert(ctx, workinghours.UpsertRequest{DayOfWeek: 5, Role: "office", StartTime: "08:00", EndTime: "13:00", Timezone: "UTC"})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Upsert(ctx, workinghours.UpsertRequest{DayOfWeek: 6, Role: "office", StartTime: "08:00", EndTime: "12:00", Timezone: "UTC", IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "13:00", all["office"]["friday"].End)
	assert.False(t, all["office"]["saturday"].IsActive)

	friday := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	cfg, err := svc.ConfigFor(ctx, user.RoleOffice, friday)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DayOfWeek)

	_, err = svc.ConfigFor(ctx, user.RoleOffice, friday.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, workinghours.ErrWorkingHoursNotFound)
}

func TestWorkingHoursService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Upsert(ctx, workinghours.UpsertRequest{DayOfWeek: 1, Role: "office", StartTime: "09:00", EndTime: "15:00", Timezone: "UTC"})
	require.NoError(t, err)

	created, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, created) // teaching and subordinate, Monday to Friday

	again, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	office, err := svc.GetHours(ctx, user.RoleOffice, "monday")
	require.NoError(t, err)
	assert.Equal(t, "09:00", office.Start)
}
