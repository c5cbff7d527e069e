package advance

import (
	"context"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store *memory.Store
	svc   *AdvanceServiceImpl
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := memory.NewStore()
	svc := NewAdvanceService(store.Transactor(), store.Advances(), store.Users(), store.Rates(), time.UTC).(*AdvanceServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return testEnv{store: store, svc: svc}
}

func (e testEnv) createUser(t *testing.T, email string, role user.Role) user.User {
	t.Helper()
	u, err := e.store.Users().Create(context.Background(), user.User{
		FullName: "Test " + email,
		Email:    email,
		Role:     role,
		Status:   user.StatusActive,
		IsActive: true,
		Currency: user.DefaultCurrency,
	})
	require.NoError(t, err)
	return u
}

func intPtr(i int) *int { return &i }

func TestAdvanceService_Create_DefaultsPeriod(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@example.com", user.RoleAdmin)
	staff := env.createUser(t, "staff@example.com", user.RoleOffice)
	remarks := "school fees"

	// Act
	resp, err := env.svc.Create(ctx, admin.ID, advance.CreateAdvanceRequest{
		UserID:  staff.ID,
		Amount:  decimal.NewFromInt(1500),
		Remarks: &remarks,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, 2025, resp.Year)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, admin.FullName, *resp.ApprovedBy)
	assert.Equal(t, &remarks, resp.Remarks)
}

func TestAdvanceService_Create_Limit(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.createUser(t, "staff@example.com", user.RoleTeaching)
	_, err := env.store.Rates().Upsert(ctx, rate.Setting{
		Role:               user.RoleTeaching,
		HourlyRate:         decimal.NewFromInt(200),
		OvertimeMultiplier: rate.DefaultOvertimeMultiplier,
		AdvanceLimit:       decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	create := func(amount int64, month int) error {
		_, err := env.svc.Create(ctx, "", advance.CreateAdvanceRequest{
			UserID: staff.ID,
			Amount: decimal.NewFromInt(amount),
			Month:  intPtr(month),
			Year:   intPtr(2025),
		})
		return err
	}

	// Act & Assert
	require.NoError(t, create(3000, 3))
	require.NoError(t, create(2000, 3))
	assert.ErrorIs(t, create(1, 3), advance.ErrAdvanceLimitExceeded)
	assert.NoError(t, create(5000, 4))

	march, err := env.svc.ListByUser(ctx, advance.ListAdvanceRequest{UserID: staff.ID, Month: intPtr(3), Year: intPtr(2025)})
	require.NoError(t, err)
	assert.Len(t, march, 2)

	all, err := env.svc.ListByUser(ctx, advance.ListAdvanceRequest{UserID: staff.ID})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAdvanceService_Create_NoLimitWithoutRate(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createUser(t, "staff@example.com", user.RoleSubordinate)

	_, err := env.svc.Create(context.Background(), "", advance.CreateAdvanceRequest{
		UserID: staff.ID,
		Amount: decimal.NewFromInt(1_000_000),
	})
	assert.NoError(t, err)
}

func TestAdvanceService_Create_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.createUser(t, "staff@example.com", user.RoleOffice)

	tests := []struct {
		name    string
		req     advance.CreateAdvanceRequest
		wantErr error
	}{
		{"unknown user", advance.CreateAdvanceRequest{UserID: "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", Amount: decimal.NewFromInt(10)}, user.ErrUserNotFound},
		{"zero amount", advance.CreateAdvanceRequest{UserID: staff.ID, Amount: decimal.Zero}, nil},
		{"bad month", advance.CreateAdvanceRequest{UserID: staff.ID, Amount: decimal.NewFromInt(1), Month: intPtr(13)}, nil},
		{"bad user id", advance.CreateAdvanceRequest{UserID: "nope", Amount: decimal.NewFromInt(1)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Create(ctx, "", tt.req)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
