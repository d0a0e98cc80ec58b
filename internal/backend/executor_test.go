package backend

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock types ---

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	called := m.Called(ctx, name, args, stdin)
	return called.Get(0).([]byte), called.Get(1).([]byte), called.Error(2)
}

func (m *MockRunner) Start(ctx context.Context, name string, args []string, stdin io.Reader) (io.ReadCloser, io.ReadCloser, func() error, error) {
	called := m.Called(ctx, name, args, stdin)

	var stdout, stderr io.ReadCloser
	if v, ok := called.Get(0).(io.ReadCloser); ok {
		stdout = v
	}
	if v, ok := called.Get(1).(io.ReadCloser); ok {
		stderr = v
	}

	var wait func() error
	if v, ok := called.Get(2).(func() error); ok {
		wait = v
	}

	return stdout, stderr, wait, called.Error(3)
}

// --- Tests ---

func TestExecutor_Execute(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "runtime-bin", []string{"--prompt", "hi"}, nil).
		Return([]byte("hello"), []byte(""), nil).Once()

	e := NewExecutorWithRunner("runtime-bin", time.Minute, runner)

	stdout, stderr, err := e.Execute(context.Background(), []string{"--prompt", "hi"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(stdout))
	assert.Empty(t, stderr)

	runner.AssertExpectations(t)
}

func TestExecutor_Stream(t *testing.T) {
	runner := new(MockRunner)
	stdout := io.NopCloser(strings.NewReader("alpha\nbeta\n"))
	stderr := io.NopCloser(strings.NewReader(""))
	runner.On("Start", mock.Anything, "runtime-bin", []string(nil), nil).
		Return(stdout, stderr, func() error { return nil }, nil).Once()

	e := NewExecutorWithRunner("runtime-bin", time.Minute, runner)

	ch, err := e.Stream(context.Background(), nil, nil)
	require.NoError(t, err)

	var lines []string
	var done bool
	for chunk := range ch {
		require.NoError(t, chunk.Error)
		if chunk.Done {
			done = true
			continue
		}
		lines = append(lines, strings.TrimSuffix(string(chunk.Data), "\n"))
	}

	assert.True(t, done)
	assert.Equal(t, []string{"alpha", "beta"}, lines)

	runner.AssertExpectations(t)
}

func TestExecutor_StreamSurfacesStderrOnFailure(t *testing.T) {
	runner := new(MockRunner)
	stdout := io.NopCloser(strings.NewReader(""))
	stderr := io.NopCloser(strings.NewReader("model file corrupt"))
	waitErr := errors.New("exit status 1")
	runner.On("Start", mock.Anything, "runtime-bin", []string(nil), nil).
		Return(stdout, stderr, func() error { return waitErr }, nil).Once()

	e := NewExecutorWithRunner("runtime-bin", time.Minute, runner)

	ch, err := e.Stream(context.Background(), nil, nil)
	require.NoError(t, err)

	var last StreamChunk
	for chunk := range ch {
		last = chunk
	}

	assert.True(t, last.Done)
	require.Error(t, last.Error)
	assert.ErrorIs(t, last.Error, waitErr)
	assert.ErrorContains(t, last.Error, "model file corrupt")

	runner.AssertExpectations(t)
}

func TestExecutor_StreamStartFailure(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Start", mock.Anything, "runtime-bin", []string(nil), nil).
		Return(nil, nil, nil, errors.New("no such file")).Once()

	e := NewExecutorWithRunner("runtime-bin", time.Minute, runner)

	_, err := e.Stream(context.Background(), nil, nil)
	assert.ErrorContains(t, err, "failed to start runtime")

	runner.AssertExpectations(t)
}

func TestNewExecutor_BinaryMustExist(t *testing.T) {
	_, err := NewExecutor("/nonexistent/runtime-bin", time.Minute)
	assert.ErrorContains(t, err, "runtime binary not found")
}
