package session

import (
	"context"
	"fmt"
	"linreg/common"
	"linreg/core/config"
	"linreg/core/ml"
	"linreg/core/msgbus"
	"linreg/core/train"
	"linreg/test/mock"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, data, train string) *config.LocalConfig {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "points.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(data), 0o644))

	cfg := fmt.Sprintf("log:\n  level: INFO\ndata:\n  path: %s\ntrain:\n%s", dataPath, train)
	cfgPath := filepath.Join(dir, "linreg_config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	lc, err := config.Load(cfgPath)
	require.NoError(t, err)
	return lc
}

func TestSessionTrain(t *testing.T) {
	lc := writeSession(t, "x,y\n0,1\n1,3\n2,5\n3,7\n",
		"  alpha: 0.1\n  tolerance: 1e-15\n  report_every: 100\n")

	s := &Session{}
	require.NoError(t, s.Init(lc))
	defer s.Stop()

	sum, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, 4, sum.DataSize)
	assert.True(t, sum.Result.Converged)
	assert.InDelta(t, 1.0, sum.Result.Theta[0], 1e-5)
	assert.InDelta(t, 2.0, sum.Result.Theta[1], 1e-5)
	assert.InDeltaSlice(t, ml.Theta{1, 2}, sum.OLS, 1e-9)
	assert.InDelta(t, 0, sum.OLSCost, 1e-12)
	assert.InDelta(t, 1, sum.RSquared, 1e-6)
}

func TestSessionNoConvergence(t *testing.T) {
	lc := writeSession(t, "0,1\n1,3\n2,5\n", "  max_iterations: 2\n  tolerance: 0\n")

	s := &Session{}
	require.NoError(t, s.Init(lc))
	defer s.Stop()

	sum, err := s.Start(context.Background())
	assert.True(t, errors.Is(err, train.ErrNoConvergence))
	require.NotNil(t, sum)
	assert.Equal(t, 2, sum.Result.Iterations)
}

func TestSessionInitErrors(t *testing.T) {
	lc := writeSession(t, "0,1\n", "  theta: [1, 2, 3]\n")
	err := (&Session{}).Init(lc)
	assert.True(t, errors.Is(err, ml.ErrDimensionMismatch))

	lc = writeSession(t, "0,1\n", "  alpha: -1\n")
	err = (&Session{}).Init(lc)
	assert.True(t, errors.Is(err, train.ErrInvalidOptions))

	lc = writeSession(t, "0,1\n", "  alpha: 0.1\n")
	lc.Data.Path = ""
	assert.Error(t, (&Session{}).Init(lc))

	_, err = (&Session{}).Start(context.Background())
	assert.Error(t, err)
}

func TestSessionEmptyData(t *testing.T) {
	lc := writeSession(t, "x,y\n", "  alpha: 0.1\n")

	s := &Session{}
	require.NoError(t, s.Init(lc))
	defer s.Stop()

	_, err := s.Start(context.Background())
	assert.True(t, errors.Is(err, ml.ErrInvalidInput))
}

func TestProgressReporter(t *testing.T) {
	log := mock.GetMockLogger(common.MODULE_SESSION)
	r := &progressReporter{runID: "r1", log: log}

	err := r.HandleMsgFromMsgBus(&msgbus.BusMessage{
		MsgType: common.LocalTrainMsg_Progress,
		RunID:   "r1",
		Msg:     &train.Progress{Iteration: 7, Theta: ml.Theta{1, 2}, Cost: 0.5},
	})
	require.NoError(t, err)
	assert.Len(t, log.Lines("#7"), 1)

	err = r.HandleMsgFromMsgBus(&msgbus.BusMessage{RunID: "r1", Msg: 42})
	assert.Error(t, err)
}

func TestProgressReporterOtherRun(t *testing.T) {
	log := mock.GetMockLogger(common.MODULE_SESSION)
	r := &progressReporter{runID: "r1", log: log}

	err := r.HandleMsgFromMsgBus(&msgbus.BusMessage{
		MsgType: common.LocalTrainMsg_Progress,
		RunID:   "r2",
		Msg:     &train.Progress{Iteration: 9, Theta: ml.Theta{1, 2}, Cost: 0.5},
	})
	require.NoError(t, err)
	assert.Empty(t, log.Lines("#9"))

	// 其他run的未知消息同样忽略
	assert.NoError(t, r.HandleMsgFromMsgBus(&msgbus.BusMessage{RunID: "r2", Msg: 42}))
}

func TestSessionWithoutReference(t *testing.T) {
	for _, data := range []string{"1,1\n", "2,1\n2,3\n"} {
		lc := writeSession(t, data, "  alpha: 0.1\n  tolerance: 1e-12\n")

		s := &Session{}
		require.NoError(t, s.Init(lc))

		sum, err := s.Start(context.Background())
		s.Stop()
		require.NoError(t, err, data)
		require.NotNil(t, sum)
		assert.True(t, sum.Result.Converged, data)
		assert.Nil(t, sum.OLS, data)
		assert.Zero(t, sum.OLSCost, data)
		assert.Zero(t, sum.RSquared, data)
	}
}
