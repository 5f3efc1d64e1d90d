package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) RunReport(ctx context.Context, stmt domain.Statement) ([]domain.ReportRow, error) {
	args := m.Called(ctx, stmt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_Run_AppliesDefaults(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	svc := NewService(store, Settings{Now: fixedClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))})

	rows := []domain.ReportRow{{
		{Label: "type_name", Value: "Bulky Items"},
		{Label: "created_date", Value: "2026-09-02"},
		{Label: "counts", Value: int64(4)},
	}}
	store.On("RunReport", ctx, mock.MatchedBy(func(stmt domain.Statement) bool {
		return len(stmt.Columns) == 3 &&
			stmt.Columns[0].Label == "type_name" &&
			stmt.Columns[1].Label == "created_date" &&
			assert.ObjectsAreEqual([]any{"2026-09-01"}, stmt.Args)
	})).Return(rows, nil)

	got, err := svc.Run(ctx, domain.ReportRequest{})

	require.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}

func TestService_Run_DefaultFilterIsComputedPerCall(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)

	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	svc := NewService(store, Settings{Now: func() time.Time { return now }})

	store.On("RunReport", ctx, mock.MatchedBy(func(stmt domain.Statement) bool {
		return assert.ObjectsAreEqual([]any{"2025-12-01"}, stmt.Args)
	})).Return([]domain.ReportRow{}, nil).Once()
	store.On("RunReport", ctx, mock.MatchedBy(func(stmt domain.Statement) bool {
		return assert.ObjectsAreEqual([]any{"2026-01-01"}, stmt.Args)
	})).Return([]domain.ReportRow{}, nil).Once()

	_, err := svc.Run(ctx, domain.ReportRequest{Fields: []string{"type_name"}})
	require.NoError(t, err)

	now = now.AddDate(0, 1, 0)
	_, err = svc.Run(ctx, domain.ReportRequest{Fields: []string{"type_name"}})
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestService_Run_ExplicitEmptyFiltersSelectAllRows(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	svc := NewService(store, Settings{})

	store.On("RunReport", ctx, mock.MatchedBy(func(stmt domain.Statement) bool {
		return len(stmt.Args) == 0
	})).Return([]domain.ReportRow{}, nil)

	_, err := svc.Run(ctx, domain.ReportRequest{Fields: []string{"agency_name"}, Filters: []string{}})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_Run_InvalidRequestNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	svc := NewService(store, Settings{})

	_, err := svc.Run(ctx, domain.ReportRequest{Fields: []string{"foo"}})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = svc.Run(ctx, domain.ReportRequest{Fields: []string{}})
	assert.ErrorIs(t, err, domain.ErrEmptyFieldList)

	store.AssertNotCalled(t, "RunReport", mock.Anything, mock.Anything)
}

func TestService_Run_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	svc := NewService(store, Settings{})

	storeErr := errors.New("connection refused")
	store.On("RunReport", ctx, mock.Anything).Return(nil, storeErr)

	_, err := svc.Run(ctx, domain.ReportRequest{})
	assert.ErrorIs(t, err, storeErr)
}
