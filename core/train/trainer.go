// Package train drives ml.GradientDescent until a stopping rule holds.
//
// The regression core performs exactly one update per call and never
// decides when to stop. Trainer owns that loop: it stops on a cost delta
// threshold, an iteration cap, divergence, or context cancellation.
package train

import (
	"context"
	"fmt"
	"linreg/common"
	"linreg/core/ml"
	"linreg/core/msgbus"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidOptions = errors.New("invalid training options")
	ErrNoConvergence  = errors.New("no convergence")
	ErrDiverged       = errors.New("diverged")
)

type Options struct {
	Alpha            float64
	MaxIterations    int
	Tolerance        float64 // 相邻两轮cost之差的阈值
	DivergenceFactor float64 // cost超过初始cost的倍数即视为发散，<=0 时只检查NaN/Inf
	ReportEvery      int     // 每隔多少轮发布一次进度，<=0 不发布
	KeepHistory      bool
}

func DefaultOptions() Options {
	return Options{
		Alpha:            0.01,
		MaxIterations:    10000,
		Tolerance:        1e-9,
		DivergenceFactor: 1e6,
		ReportEvery:      1000,
	}
}

func (o Options) Validate() error {
	if !(o.Alpha > 0) || math.IsInf(o.Alpha, 0) {
		return errors.Wrapf(ErrInvalidOptions, "alpha must be positive, got %v", o.Alpha)
	}
	if o.MaxIterations <= 0 {
		return errors.Wrapf(ErrInvalidOptions, "max iterations must be positive, got %d", o.MaxIterations)
	}
	if o.Tolerance < 0 {
		return errors.Wrapf(ErrInvalidOptions, "tolerance must not be negative, got %v", o.Tolerance)
	}
	return nil
}

// Progress is published on the message bus while training.
type Progress struct {
	Iteration    int
	Theta        ml.Theta
	Cost         float64
	GradientNorm float64
}

type Result struct {
	Theta      ml.Theta
	Cost       float64
	Iterations int
	Converged  bool
	History    []float64 // History[0] 为初始cost
}

func (r *Result) String() string {
	return fmt.Sprintf("theta=[%.6f, %.6f] cost=%.9f iterations=%d converged=%v",
		r.Theta[0], r.Theta[1], r.Cost, r.Iterations, r.Converged)
}

type Trainer struct {
	opts  Options
	runID string
	bus   msgbus.MessageBus
	log   common.Logger
}

func NewTrainer(opts Options, runID string, bus msgbus.MessageBus, log common.Logger) (*Trainer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = common.GetLogger(common.MODULE_TRAIN)
	}
	return &Trainer{
		opts:  opts,
		runID: runID,
		bus:   bus,
		log:   log,
	}, nil
}

func (t *Trainer) Options() Options {
	return t.opts
}

// Run iterates gradient descent from theta0. On ErrNoConvergence and
// ErrDiverged the last result is returned together with the error.
func (t *Trainer) Run(ctx context.Context, ds ml.DataSet, theta0 ml.Theta) (*Result, error) {
	cost, err := ml.Cost(ds, theta0)
	if err != nil {
		return nil, err
	}

	res := &Result{Theta: theta0.Clone(), Cost: cost}
	if t.opts.KeepHistory {
		res.History = append(res.History, cost)
	}
	initial := cost
	t.log.Debugf("start training, m=%d alpha=%v theta=%v cost=%v", ds.Size(), t.opts.Alpha, theta0, cost)

	for res.Iterations < t.opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			t.finish(res)
			return res, err
		}

		next, err := ml.GradientDescent(ds, t.opts.Alpha, res.Theta)
		if err != nil {
			return nil, err
		}
		nextCost, err := ml.Cost(ds, next)
		if err != nil {
			return nil, err
		}

		delta := math.Abs(res.Cost - nextCost)
		step := floats.Distance(res.Theta, next, 2)
		res.Iterations++
		res.Theta, res.Cost = next, nextCost
		if t.opts.KeepHistory {
			res.History = append(res.History, nextCost)
		}

		if t.diverged(initial, nextCost) {
			t.log.Warnf("diverged at iteration %d, cost=%v, try a smaller alpha than %v",
				res.Iterations, nextCost, t.opts.Alpha)
			t.finish(res)
			return res, errors.Wrapf(ErrDiverged, "iteration %d cost %v", res.Iterations, nextCost)
		}

		if t.opts.ReportEvery > 0 && res.Iterations%t.opts.ReportEvery == 0 {
			t.report(ds, res)
		}

		if delta <= t.opts.Tolerance || step == 0 {
			res.Converged = true
			t.log.Infof("converged after %d iterations", res.Iterations)
			t.finish(res)
			return res, nil
		}
	}

	t.log.Warnf("no convergence after %d iterations", res.Iterations)
	t.finish(res)
	return res, errors.Wrapf(ErrNoConvergence, "after %d iterations", res.Iterations)
}

func (t *Trainer) diverged(initial, cost float64) bool {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return true
	}
	return t.opts.DivergenceFactor > 0 && initial > 0 && cost > initial*t.opts.DivergenceFactor
}

func (t *Trainer) report(ds ml.DataSet, res *Result) {
	grad, err := ml.Gradient(ds, res.Theta)
	if err != nil {
		t.log.Warnf("skip progress report at iteration %d: %s", res.Iterations, err)
		return
	}
	p := &Progress{
		Iteration:    res.Iterations,
		Theta:        res.Theta.Clone(),
		Cost:         res.Cost,
		GradientNorm: floats.Norm(grad, 2),
	}
	t.log.Debugf("#%d theta=%v cost=%v |grad|=%v", p.Iteration, p.Theta, p.Cost, p.GradientNorm)
	if t.bus != nil {
		t.bus.Publish(t.runID, common.LocalTrainMsg_Progress, p)
	}
}

func (t *Trainer) finish(res *Result) {
	if t.bus == nil {
		return
	}
	final := *res
	final.Theta = res.Theta.Clone()
	t.bus.Publish(t.runID, common.LocalTrainMsg_Finished, &final)
}
