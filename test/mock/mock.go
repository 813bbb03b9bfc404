package mock

import (
	"fmt"
	"linreg/core/msgbus"
	"strings"
	"sync"
)

// MockLog prints like the real logger and keeps every line so tests can
// check what was logged.
type MockLog struct {
	Name string

	mutex sync.Mutex
	lines []string
}

func (l *MockLog) record(level, msg string) {
	line := fmt.Sprintf("[%s] %s %s", level, l.Name, strings.TrimRight(msg, "\n"))
	l.mutex.Lock()
	l.lines = append(l.lines, line)
	l.mutex.Unlock()
	fmt.Println(line)
}

func (l *MockLog) Debug(args ...interface{}) {
	l.record("DEBUG", fmt.Sprint(args...))
}

func (l *MockLog) Debugf(format string, args ...interface{}) {
	l.record("DEBUG", fmt.Sprintf(format, args...))
}

func (l *MockLog) Info(args ...interface{}) {
	l.record("INFO", fmt.Sprint(args...))
}

func (l *MockLog) Infof(format string, args ...interface{}) {
	l.record("INFO", fmt.Sprintf(format, args...))
}

func (l *MockLog) Warn(args ...interface{}) {
	l.record("WARN", fmt.Sprint(args...))
}

func (l *MockLog) Warnf(format string, args ...interface{}) {
	l.record("WARN", fmt.Sprintf(format, args...))
}

func (l *MockLog) Error(args ...interface{}) {
	l.record("ERROR", fmt.Sprint(args...))
}

func (l *MockLog) Errorf(format string, args ...interface{}) {
	l.record("ERROR", fmt.Sprintf(format, args...))
}

// Lines returns the logged lines containing substr.
func (l *MockLog) Lines(substr string) []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var res []string
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			res = append(res, line)
		}
	}
	return res
}

func GetMockLogger(name string) *MockLog {
	return &MockLog{Name: name}
}

// MockSubscriber forwards bus messages to a buffered channel.
type MockSubscriber struct {
	Msgs chan *msgbus.BusMessage
}

func NewMockSubscriber(size int) *MockSubscriber {
	return &MockSubscriber{Msgs: make(chan *msgbus.BusMessage, size)}
}

func (s *MockSubscriber) HandleMsgFromMsgBus(msg *msgbus.BusMessage) error {
	s.Msgs <- msg
	return nil
}
