package msgbus

import (
	"linreg/common"
	"sync"
	"sync/atomic"
)

var defaultTopicSize int = 100

type BusMessage struct {
	MsgType common.LocalMsgType
	RunID   string
	Msg     interface{}
}

type Subscriber interface {
	HandleMsgFromMsgBus(msg *BusMessage) error
}

type MessageBus interface {
	Register(topic common.LocalMsgType, sub Subscriber)
	UnRegister(topic common.LocalMsgType, sub Subscriber)
	Publish(runID string, t common.LocalMsgType, payload interface{})
	Reset()
}

type Topic interface {
	Register(sub Subscriber)
	UnRegister(sub Subscriber)
	Publish(msg *BusMessage)
	Stop()
}

type topicImpl struct {
	msgChan chan *BusMessage
	subs    atomic.Value //[]Subscriber
	mutex   sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

func newTopic(size int) Topic {
	t := &topicImpl{
		msgChan: make(chan *BusMessage, size),
		stop:    make(chan struct{}),
	}
	t.subs.Store([]Subscriber{})
	go t.handlePublish()
	return t
}

func (t *topicImpl) Register(sub Subscriber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subs.Load().([]Subscriber)
	//去重
	for _, s := range subs {
		if s == sub {
			return
		}
	}
	newSubs := make([]Subscriber, 0, len(subs)+1)
	newSubs = append(newSubs, subs...)
	t.subs.Store(append(newSubs, sub))
}

func (t *topicImpl) UnRegister(sub Subscriber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subs.Load().([]Subscriber)
	for i, s := range subs {
		if s == sub {
			newSubs := make([]Subscriber, 0, len(subs)-1)
			newSubs = append(newSubs, subs[:i]...)
			t.subs.Store(append(newSubs, subs[i+1:]...))
			return
		}
	}
}

// Publish 在topic停止后丢弃消息
func (t *topicImpl) Publish(msg *BusMessage) {
	select {
	case <-t.stop:
	case t.msgChan <- msg:
	}
}

// stop 协程handlePublish()
func (t *topicImpl) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// 同一topic内的消息按发布顺序投递给每个订阅者
func (t *topicImpl) handlePublish() {
	for {
		select {
		case <-t.stop:
			return
		case msg := <-t.msgChan:
			subs := t.subs.Load().([]Subscriber)
			for _, sub := range subs {
				_ = sub.HandleMsgFromMsgBus(msg)
			}
		}
	}
}

type messageBusImpl struct {
	mutex  sync.Mutex
	topics map[common.LocalMsgType]Topic
}

func NewMessageBus() MessageBus {
	return &messageBusImpl{topics: make(map[common.LocalMsgType]Topic)}
}

func (mb *messageBusImpl) Register(topic common.LocalMsgType, sub Subscriber) {
	firstClassTopic := topic.Type()
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	t, ok := mb.topics[firstClassTopic]
	if !ok {
		t = newTopic(defaultTopicSize)
		mb.topics[firstClassTopic] = t
	}
	t.Register(sub)
}

func (mb *messageBusImpl) UnRegister(topic common.LocalMsgType, sub Subscriber) {
	firstClassTopic := topic.Type()
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	if t, ok := mb.topics[firstClassTopic]; ok {
		t.UnRegister(sub)
	}
}

// Publish 没有订阅者的topic直接丢弃
func (mb *messageBusImpl) Publish(runID string, topic common.LocalMsgType, msg interface{}) {
	firstClassTopic := topic.Type()
	mb.mutex.Lock()
	t, ok := mb.topics[firstClassTopic]
	mb.mutex.Unlock()
	if !ok {
		return
	}
	t.Publish(&BusMessage{topic, runID, msg})
}

func (mb *messageBusImpl) Reset() {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	for _, t := range mb.topics {
		t.Stop()
	}
	mb.topics = make(map[common.LocalMsgType]Topic)
}

var singletonMessageBus MessageBus
var once sync.Once

func InitMessageBus() MessageBus {
	once.Do(func() {
		singletonMessageBus = NewMessageBus()
	})
	return singletonMessageBus
}
