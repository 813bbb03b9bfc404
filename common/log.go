package common

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 日志级别，int类型，内部接口使用常量
type LOG_LEVEL int

const (
	LEVEL_DEBUG LOG_LEVEL = iota
	LEVEL_INFO
	LEVEL_WARN
	LEVEL_ERROR
)

var (
	LOG_LEVEL_Name = map[LOG_LEVEL]string{
		0: "DEBUG",
		1: "INFO",
		2: "WARN",
		3: "ERROR",
	}
	LOG_LEVEL_Value = map[string]LOG_LEVEL{
		"DEBUG": 0,
		"INFO":  1,
		"WARN":  2,
		"ERROR": 3,
	}
)

// ParseLogLevel maps a level name to LOG_LEVEL, defaulting to INFO.
func ParseLogLevel(s string) LOG_LEVEL {
	if lvl, ok := LOG_LEVEL_Value[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return LEVEL_INFO
}

const (
	LOG_MODE_DEV  = "DEV"
	LOG_MODE_PROD = "PROD"
)

type LogConfig struct {
	BriefMode          string
	ModuleSpecialLevel map[string]LOG_LEVEL // 模块特别指定的日志级别

	LogPath        string // 为空时只输出到控制台
	LogLevel       LOG_LEVEL
	RotationMaxAge int // 日志的保存期限（天）
	RotationTime   int // 日志rotation的间隔（小时）
	RotationSize   int // 日志rotation的大小（MB）
	ShowLine       bool
	LogInConsole   bool
}

// 若未设置配置，则按照DEV模式设置
func DefaultLogConfig(isDEV bool) *LogConfig {
	if isDEV {
		return defaultBriefLogConfigForDEV()
	}

	return defaultBriefLogConfigForPROD()
}

func defaultBriefLogConfigForDEV() *LogConfig {
	return &LogConfig{
		LogLevel:       LEVEL_DEBUG,
		RotationMaxAge: 1,
		RotationTime:   1,
		RotationSize:   10,
		ShowLine:       true,
		LogInConsole:   true,
	}
}

func defaultBriefLogConfigForPROD() *LogConfig {
	return &LogConfig{
		LogPath:        "./linreg.prod.log",
		LogLevel:       LEVEL_INFO,
		RotationMaxAge: 1,
		RotationTime:   24,
		RotationSize:   30,
		ShowLine:       true,
		LogInConsole:   false,
	}
}

func adjustLogConfig(name string, lc *LogConfig) *LogConfig {
	if lc.BriefMode != "" {
		return DefaultLogConfig(lc.BriefMode != LOG_MODE_PROD)
	}

	newC := *lc
	newC.ModuleSpecialLevel = nil
	if lvl, ok := lc.ModuleSpecialLevel[name]; ok {
		newC.LogLevel = lvl
	}
	return &newC
}

func zapLevelOf(l LOG_LEVEL) zapcore.Level {
	switch l {
	case LEVEL_DEBUG:
		return zap.DebugLevel
	case LEVEL_INFO:
		return zap.InfoLevel
	case LEVEL_WARN:
		return zap.WarnLevel
	case LEVEL_ERROR:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func NewSugaredLogger(name string, lc *LogConfig) *zap.SugaredLogger {
	lcc := adjustLogConfig(name, lc)
	//1.创建level
	zapLevel := zapLevelOf(lcc.LogLevel)
	priorityLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapLevel
	})

	//2.创建syncer
	var syncers []zapcore.WriteSyncer
	if lcc.LogPath != "" {
		fileName := lcc.LogPath + ".%Y%m%d%H"
		rotationWriter, err := rotatelogs.New(
			fileName,
			rotatelogs.WithRotationTime(time.Duration(lcc.RotationTime)*time.Hour),
			rotatelogs.WithRotationSize(int64(lcc.RotationSize*1024*1024)),
			rotatelogs.WithMaxAge(time.Hour*24*time.Duration(lcc.RotationMaxAge)),
		)
		if err != nil {
			log.Fatalf("new rotation log failed, %s", err)
		}
		syncers = append(syncers, zapcore.AddSync(rotationWriter))
	}
	if lcc.LogInConsole || len(syncers) == 0 {
		syncers = append(syncers, zapcore.AddSync(os.Stdout))
	}
	syncer := zapcore.NewMultiWriteSyncer(syncers...)

	//3.创建encoder
	customLevelEncoder := func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + level.CapitalString() + "]")
	}
	customTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "line",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	//4.根据1-3，创建core
	core := zapcore.NewCore(encoder, syncer, priorityLevel)
	//5.创建SugaredLogger
	logger := zap.New(core).Named(name)

	var opts []zap.Option
	if lcc.ShowLine {
		opts = append(opts, zap.AddCaller())
	}
	//logger最终是装载到LinregLogger中使用的，因此这里跳过1层调用
	opts = append(opts, zap.AddCallerSkip(1))
	logger = logger.WithOptions(opts...)

	return logger.Sugar()
}

const (
	MODULE_REGRESS = "[Regress]"
	MODULE_TRAIN   = "[Train]"
	MODULE_DATA    = "[Data]"
	MODULE_SESSION = "[Session]"
)

var modules = []string{MODULE_REGRESS, MODULE_TRAIN, MODULE_DATA, MODULE_SESSION}

// ModuleName 将配置中的模块名（大小写、方括号均可省略）转换为日志模块名
func ModuleName(name string) (string, bool) {
	bare := strings.Trim(strings.TrimSpace(name), "[]")
	for _, m := range modules {
		if strings.EqualFold(bare, strings.Trim(m, "[]")) {
			return m, true
		}
	}
	return "", false
}

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type LinregLogger struct {
	zlog  *zap.SugaredLogger
	name  string
	mutex sync.RWMutex
}

func (l *LinregLogger) Logger() *zap.SugaredLogger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.zlog
}

func (l *LinregLogger) Debug(args ...interface{}) {
	l.Logger().Debug(args...)
}

func (l *LinregLogger) Debugf(format string, args ...interface{}) {
	l.Logger().Debugf(format, args...)
}

func (l *LinregLogger) Info(args ...interface{}) {
	l.Logger().Info(args...)
}

func (l *LinregLogger) Infof(format string, args ...interface{}) {
	l.Logger().Infof(format, args...)
}

func (l *LinregLogger) Warn(args ...interface{}) {
	l.Logger().Warn(args...)
}

func (l *LinregLogger) Warnf(format string, args ...interface{}) {
	l.Logger().Warnf(format, args...)
}

func (l *LinregLogger) Error(args ...interface{}) {
	l.Logger().Error(args...)
}

func (l *LinregLogger) Errorf(format string, args ...interface{}) {
	l.Logger().Errorf(format, args...)
}

func (l *LinregLogger) Sync() error {
	return l.Logger().Sync()
}

func (l *LinregLogger) SetLogger(logger *zap.SugaredLogger) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.zlog = logger
}

var (
	linregLoggersMap = make(map[string]*LinregLogger)
	loggerMutex      sync.RWMutex
	linregLogConfig  *LogConfig
)

func GetLogger(name string) *LinregLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if logger, ok := linregLoggersMap[name]; ok {
		return logger
	}

	if linregLogConfig == nil {
		linregLogConfig = DefaultLogConfig(true)
	}

	logger := &LinregLogger{
		name: name,
		zlog: NewSugaredLogger(name, linregLogConfig),
	}
	linregLoggersMap[name] = logger

	return logger
}

// 在获取日志对象之前进行配置设置，已创建的日志对象会按新配置重建
func SetLogConfig(config *LogConfig) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	linregLogConfig = config
	for _, logger := range linregLoggersMap {
		logger.SetLogger(NewSugaredLogger(logger.name, linregLogConfig))
	}
}
