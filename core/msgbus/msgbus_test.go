package msgbus

import (
	"linreg/common"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSubscriber struct {
	ch chan *BusMessage
}

func (s *chanSubscriber) HandleMsgFromMsgBus(msg *BusMessage) error {
	s.ch <- msg
	return nil
}

func recv(t *testing.T, ch chan *BusMessage) *BusMessage {
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestPublishInOrder(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Reset()

	sub := &chanSubscriber{ch: make(chan *BusMessage, 10)}
	mb.Register(common.LocalTrainMsg_Progress, sub)
	mb.Register(common.LocalTrainMsg_Progress, sub) // 重复注册无效

	mb.Publish("run-1", common.LocalTrainMsg_Progress, 1)
	mb.Publish("run-1", common.LocalTrainMsg_Progress, 2)
	mb.Publish("run-1", common.LocalTrainMsg_Finished, 3)

	types := []common.LocalMsgType{
		common.LocalTrainMsg_Progress,
		common.LocalTrainMsg_Progress,
		common.LocalTrainMsg_Finished,
	}
	for i, want := range types {
		msg := recv(t, sub.ch)
		require.NotNil(t, msg)
		assert.Equal(t, "run-1", msg.RunID)
		assert.Equal(t, want, msg.MsgType)
		assert.Equal(t, i+1, msg.Msg)
	}

	select {
	case msg := <-sub.ch:
		t.Fatalf("unexpected duplicate delivery: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnRegister(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Reset()

	a := &chanSubscriber{ch: make(chan *BusMessage, 10)}
	b := &chanSubscriber{ch: make(chan *BusMessage, 10)}
	mb.Register(common.LocalTrainMsg_Progress, a)
	mb.Register(common.LocalTrainMsg_Progress, b)
	mb.UnRegister(common.LocalTrainMsg_Progress, a)

	mb.Publish("run-2", common.LocalTrainMsg_Progress, "x")
	assert.Equal(t, "x", recv(t, b.ch).Msg)

	select {
	case msg := <-a.ch:
		t.Fatalf("unregistered subscriber got %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishWithoutTopicAndAfterReset(t *testing.T) {
	mb := NewMessageBus()
	// 无订阅者，不阻塞
	mb.Publish("run-3", common.LocalTrainMsg_Progress, nil)

	sub := &chanSubscriber{ch: make(chan *BusMessage, 1)}
	mb.Register(common.LocalTrainMsg_Progress, sub)
	mb.Reset()
	mb.Reset()
	mb.Publish("run-3", common.LocalTrainMsg_Progress, nil)
}

func TestInitMessageBusSingleton(t *testing.T) {
	assert.Same(t, InitMessageBus(), InitMessageBus())
}
