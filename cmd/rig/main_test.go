package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	loader    *mocks.MockConfigLoader
	telemetry *mocks.MockTelemetry
	logger    *mocks.MockLogger
}

func newProvider(t *testing.T) (ComponentProvider, *testMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &testMocks{
		loader:    mocks.NewMockConfigLoader(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	m.telemetry.EXPECT().Close().Return(nil)

	application := app.New(
		m.loader,
		mocks.NewMockConfigResolver(ctrl),
		mocks.NewMockHasher(ctrl),
		mocks.NewMockResolutionStore(ctrl),
		mocks.NewMockResolvedWriter(ctrl),
		mocks.NewMockWatcher(ctrl),
		m.telemetry,
		m.logger,
	)

	return func(_ context.Context) (*app.Components, error) {
		return app.NewComponents(application, m.logger, m.telemetry), nil
	}, m
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	provider, _ := newProvider(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "rig version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	provider, m := newProvider(t)

	m.loader.EXPECT().Discover(gomock.Any()).Return("", domain.ErrConfigNotFound)
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	t.Chdir(t.TempDir())
	exitCode := run(context.Background(), []string{"resolve"}, new(bytes.Buffer), new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}
