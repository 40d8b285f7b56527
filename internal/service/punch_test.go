package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/timeclock/internal/domain/model"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/mocks"
	"github.com/target/timeclock/internal/observability/statsd"
)

var punchStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newPunchController(t *testing.T) (*PunchController, *mocks.MockPunchAPI, *statsd.Recorder) {
	t.Helper()
	api := mocks.NewMockPunchAPI(gomock.NewController(t))
	rec := &statsd.Recorder{}
	return NewPunchController(PunchControllerOptions{API: api, Metrics: rec}), api, rec
}

func TestNewPunchController_PanicsWithoutAPI(t *testing.T) {
	assert.Panics(t, func() { NewPunchController(PunchControllerOptions{}) })
}

func TestPunchController_SecondPunchWhilePendingIsIgnored(t *testing.T) {
	ctx := context.Background()
	pc, api, _ := newPunchController(t)

	started := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().PunchIn(gomock.Any()).DoAndReturn(func(context.Context) (time.Time, error) {
		close(started)
		<-release
		return punchStart, nil
	}).Times(1)

	done := make(chan error, 1)
	go func() { done <- pc.Punch(ctx) }()
	<-started

	assert.True(t, pc.Busy())
	require.NoError(t, pc.Punch(ctx))
	assert.False(t, pc.Session().ClockedIn)

	close(release)
	require.NoError(t, <-done)

	s := pc.Session()
	require.True(t, s.ClockedIn)
	assert.Equal(t, punchStart, *s.Start())
	assert.False(t, pc.Busy())
}

func TestPunchController_ClockOutFailureKeepsClockedIn(t *testing.T) {
	ctx := context.Background()
	pc, api, rec := newPunchController(t)

	api.EXPECT().PunchStatus(gomock.Any()).Return(model.PunchStatus{ClockedIn: true, ClockIn: &punchStart}, nil)
	api.EXPECT().PunchOut(gomock.Any(), "").Return(apperrors.RequestFailed(500, "Punch failed"))

	require.NoError(t, pc.Sync(ctx))
	err := pc.Punch(ctx)

	require.Error(t, err)
	s := pc.Session()
	assert.True(t, s.ClockedIn)
	assert.Equal(t, punchStart, *s.Start())
	assert.Equal(t, "Punch failed", pc.ErrorMessage())

	samples := rec.Samples("punch.result")
	require.Len(t, samples, 1)
	assert.Equal(t, "out", samples[0].Tags["action"])
	assert.Equal(t, "error", samples[0].Tags["result"])
}

func TestPunchController_ClockInFailureKeepsClockedOut(t *testing.T) {
	pc, api, _ := newPunchController(t)
	api.EXPECT().PunchIn(gomock.Any()).Return(time.Time{}, apperrors.Forbidden("Forbidden"))

	err := pc.Punch(context.Background())

	assert.True(t, apperrors.IsForbidden(err))
	assert.False(t, pc.Session().ClockedIn)
	assert.Equal(t, err, pc.LastError())
}

func TestPunchController_PunchOutWithNotes(t *testing.T) {
	ctx := context.Background()
	pc, api, rec := newPunchController(t)

	gomock.InOrder(
		api.EXPECT().PunchIn(gomock.Any()).Return(punchStart, nil),
		api.EXPECT().PunchOut(gomock.Any(), "wrapped up").Return(nil),
	)

	var changes []model.PunchSession
	unsubscribe := pc.OnChange(func(s model.PunchSession) { changes = append(changes, s) })
	defer unsubscribe()

	require.NoError(t, pc.Punch(ctx, WithNotes("ignored on clock in")))
	require.NoError(t, pc.Punch(ctx, WithNotes("wrapped up")))

	require.Len(t, changes, 2)
	assert.True(t, changes[0].ClockedIn)
	assert.False(t, changes[1].ClockedIn)
	assert.Nil(t, pc.Session().Start())
	assert.NoError(t, pc.LastError())
	assert.Equal(t, float64(2), rec.Total("punch.result"))
}

func TestPunchController_SyncFailure(t *testing.T) {
	pc, api, _ := newPunchController(t)
	boom := errors.New("connection refused")
	api.EXPECT().PunchStatus(gomock.Any()).Return(model.PunchStatus{}, boom)

	err := pc.Sync(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, pc.LastError(), boom)
	assert.False(t, pc.Session().ClockedIn)
}

func TestPunchController_SuccessClearsLastError(t *testing.T) {
	ctx := context.Background()
	pc, api, _ := newPunchController(t)

	gomock.InOrder(
		api.EXPECT().PunchIn(gomock.Any()).Return(time.Time{}, errors.New("timeout")),
		api.EXPECT().PunchIn(gomock.Any()).Return(punchStart, nil),
	)

	require.Error(t, pc.Punch(ctx))
	require.Error(t, pc.LastError())
	require.NoError(t, pc.Punch(ctx))
	assert.NoError(t, pc.LastError())
	assert.Empty(t, pc.ErrorMessage())
}
