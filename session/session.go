package session

import (
	"context"
	"fmt"
	"linreg/common"
	"linreg/core/config"
	"linreg/core/dataset"
	"linreg/core/ml"
	"linreg/core/msgbus"
	"linreg/core/train"

	"github.com/google/uuid"
)

// Summary is what a finished training session reports.
type Summary struct {
	RunID     string
	Result    *train.Result
	RSquared  float64  // OLS为nil时不计算
	OLS       ml.Theta // 闭式解，作为参照；数据无离散度时为nil
	OLSCost   float64
	DataSize  int
	ConfigUse string
}

type Session struct {
	runID   string
	conf    *config.LocalConfig
	data    ml.DataSet
	theta0  ml.Theta
	trainer *train.Trainer
	msgBus  msgbus.MessageBus
	report  *progressReporter
	log     common.Logger
}

func (s *Session) Init(c *config.LocalConfig) error {
	s.conf = c

	logConfig, err := c.LogConfig()
	if err != nil {
		return fmt.Errorf("get log config err: %s", err)
	}
	common.SetLogConfig(logConfig)
	s.log = common.GetLogger(common.MODULE_SESSION)
	s.runID = uuid.New().String()

	if c.Data.Path == "" {
		return fmt.Errorf("data.path is not set in %s", c.Path)
	}
	s.data, err = dataset.LoadFile(c.Data.Path, c.Data.Format, c.Data.Header)
	if err != nil {
		return fmt.Errorf("load data set err: %w", err)
	}

	s.theta0, err = c.InitialTheta()
	if err != nil {
		return fmt.Errorf("get initial theta err: %w", err)
	}
	opts, err := c.TrainOptions()
	if err != nil {
		return fmt.Errorf("get train options err: %w", err)
	}

	//在trainer初始化之前，初始化messagebus
	s.msgBus = msgbus.InitMessageBus()
	s.report = &progressReporter{runID: s.runID, log: s.log}
	s.msgBus.Register(common.LocalTrainMsg_Progress, s.report)

	s.trainer, err = train.NewTrainer(opts, s.runID, s.msgBus, common.GetLogger(common.MODULE_TRAIN))
	if err != nil {
		return fmt.Errorf("trainer init err: %w", err)
	}
	s.log.Infof("session %s ready, %d observations from %s", s.runID, len(s.data), c.Data.Path)
	return nil
}

// Start runs training to completion. A non-convergent or divergent run
// still returns its summary along with the error.
func (s *Session) Start(ctx context.Context) (*Summary, error) {
	if s.trainer == nil {
		return nil, fmt.Errorf("session not initialized")
	}

	res, runErr := s.trainer.Run(ctx, s.data, s.theta0)
	if res == nil {
		return nil, runErr
	}

	sum := &Summary{
		RunID:     s.runID,
		Result:    res,
		DataSize:  len(s.data),
		ConfigUse: s.conf.Path,
	}
	if runErr != nil {
		s.log.Warnf("session %s finished with error: %s", s.runID, runErr)
	}
	if err := s.reference(sum); err != nil {
		s.log.Warnf("session %s: no OLS reference: %s", s.runID, err)
		s.log.Infof("session %s: %s", s.runID, res)
		return sum, runErr
	}
	s.log.Infof("session %s: %s r2=%.6f ols=[%.6f, %.6f] ols_cost=%.9f",
		s.runID, res, sum.RSquared, sum.OLS[0], sum.OLS[1], sum.OLSCost)
	return sum, runErr
}

// reference 填充OLS参照；失败时sum中的参照字段保持零值
func (s *Session) reference(sum *Summary) error {
	ols, err := ml.LeastSquares(s.data)
	if err != nil {
		return err
	}
	olsCost, err := ml.Cost(s.data, ols)
	if err != nil {
		return err
	}
	r2, err := ml.RSquared(s.data, sum.Result.Theta)
	if err != nil {
		return err
	}
	sum.OLS, sum.OLSCost, sum.RSquared = ols, olsCost, r2
	return nil
}

func (s *Session) Stop() {
	if s.msgBus != nil {
		s.msgBus.UnRegister(common.LocalTrainMsg_Progress, s.report)
	}
}

// progressReporter 只记录本session的消息，bus是进程内单例
type progressReporter struct {
	runID string
	log   common.Logger
}

func (r *progressReporter) HandleMsgFromMsgBus(msg *msgbus.BusMessage) error {
	if msg.RunID != r.runID {
		return nil
	}
	switch m := msg.Msg.(type) {
	case *train.Progress:
		r.log.Infof("[%s] #%d theta=[%.6f, %.6f] cost=%.9f |grad|=%.3g",
			msg.RunID, m.Iteration, m.Theta[0], m.Theta[1], m.Cost, m.GradientNorm)
	case *train.Result:
		r.log.Debugf("[%s] finished: %s", msg.RunID, m)
	default:
		return fmt.Errorf("unexpected message %T", msg.Msg)
	}
	return nil
}
