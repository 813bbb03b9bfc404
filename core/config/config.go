package config

import (
	"fmt"
	"linreg/common"
	"linreg/core/ml"
	"linreg/core/train"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "linreg"
	envCfgPath     = "LINREG_CFG_PATH"
	configFileName = "linreg_config"
)

type LogSection struct {
	Mode           string            `mapstructure:"mode"`
	Level          string            `mapstructure:"level"`
	Path           string            `mapstructure:"path"`
	Console        bool              `mapstructure:"console"`
	ShowLine       bool              `mapstructure:"show_line"`
	RotationMaxAge int               `mapstructure:"rotation_max_age"`
	RotationTime   int               `mapstructure:"rotation_time"`
	RotationSize   int               `mapstructure:"rotation_size"`
	Modules        map[string]string `mapstructure:"modules"` // 模块名 -> 级别
}

type DataSection struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	Header bool   `mapstructure:"header"`
}

type TrainSection struct {
	Alpha            float64   `mapstructure:"alpha"`
	Theta            []float64 `mapstructure:"theta"`
	MaxIterations    int       `mapstructure:"max_iterations"`
	Tolerance        float64   `mapstructure:"tolerance"`
	DivergenceFactor float64   `mapstructure:"divergence_factor"`
	ReportEvery      int       `mapstructure:"report_every"`
}

type LocalConfig struct {
	Path  string       `mapstructure:"-"` // 实际读取的配置文件
	Log   LogSection   `mapstructure:"log"`
	Data  DataSection  `mapstructure:"data"`
	Train TrainSection `mapstructure:"train"`
}

func setDefaults(v *viper.Viper) {
	d := train.DefaultOptions()
	v.SetDefault("log.mode", "")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.console", true)
	v.SetDefault("log.show_line", true)
	v.SetDefault("log.rotation_max_age", 1)
	v.SetDefault("log.rotation_time", 24)
	v.SetDefault("log.rotation_size", 30)
	v.SetDefault("train.alpha", d.Alpha)
	v.SetDefault("train.theta", []float64{0, 0})
	v.SetDefault("train.max_iterations", d.MaxIterations)
	v.SetDefault("train.tolerance", d.Tolerance)
	v.SetDefault("train.divergence_factor", d.DivergenceFactor)
	v.SetDefault("train.report_every", d.ReportEvery)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// InitLocalConfig 若命令行设置了配置文件，则直接使用；
// 若未设置，则在LINREG_CFG_PATH（默认当前目录）下寻找linreg_config.yaml
func InitLocalConfig(cmd *cobra.Command) (*LocalConfig, error) {
	flag := cmd.Flags().Lookup("config")
	if flag == nil {
		return nil, fmt.Errorf("cmd %s no set config flag", cmd.Name())
	}
	return Load(flag.Value.String())
}

func Load(cfgFile string) (*LocalConfig, error) {
	v := newViper()

	altPath := os.Getenv(envCfgPath)
	if altPath == "" {
		altPath = "."
	}
	v.AddConfigPath(altPath)
	v.SetConfigName(configFileName)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	lc := &LocalConfig{}
	if err := v.Unmarshal(lc); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	lc.Path = v.ConfigFileUsed()
	return lc, nil
}

func (lc *LocalConfig) LogConfig() (*common.LogConfig, error) {
	l := lc.Log
	mode := strings.ToUpper(l.Mode)
	if mode != "" && mode != common.LOG_MODE_DEV && mode != common.LOG_MODE_PROD {
		return nil, fmt.Errorf("unknown log mode %q", l.Mode)
	}

	modules := make(map[string]common.LOG_LEVEL, len(l.Modules))
	for name, lvl := range l.Modules {
		module, ok := common.ModuleName(name)
		if !ok {
			return nil, fmt.Errorf("unknown log module %q", name)
		}
		modules[module] = common.ParseLogLevel(lvl)
	}
	return &common.LogConfig{
		BriefMode:          mode,
		ModuleSpecialLevel: modules,
		LogPath:            l.Path,
		LogLevel:           common.ParseLogLevel(l.Level),
		RotationMaxAge:     l.RotationMaxAge,
		RotationTime:       l.RotationTime,
		RotationSize:       l.RotationSize,
		ShowLine:           l.ShowLine,
		LogInConsole:       l.Console,
	}, nil
}

func (lc *LocalConfig) TrainOptions() (train.Options, error) {
	t := lc.Train
	opts := train.Options{
		Alpha:            t.Alpha,
		MaxIterations:    t.MaxIterations,
		Tolerance:        t.Tolerance,
		DivergenceFactor: t.DivergenceFactor,
		ReportEvery:      t.ReportEvery,
	}
	return opts, opts.Validate()
}

func (lc *LocalConfig) InitialTheta() (ml.Theta, error) {
	if len(lc.Train.Theta) != ml.ThetaSize {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "train.theta has %d elements, want %d",
			len(lc.Train.Theta), ml.ThetaSize)
	}
	return ml.Theta(lc.Train.Theta).Clone(), nil
}
