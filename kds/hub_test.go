package kds

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failWith error
	block    chan struct{}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.Publish(Message{Type: EventNewOrder, Data: map[string]interface{}{"id": 7, "customer_name": "Ana"}})

	for _, conn := range []*fakeConn{a, b} {
		conn := conn
		require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 5*time.Millisecond)

		var msg struct {
			Type string `json:"type"`
			Data struct {
				ID           int    `json:"id"`
				CustomerName string `json:"customer_name"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(conn.received()[0], &msg))
		assert.Equal(t, EventNewOrder, msg.Type)
		assert.Equal(t, 7, msg.Data.ID)
		assert.Equal(t, "Ana", msg.Data.CustomerName)
	}
}

func TestUnsubscribedViewerIsSkipped(t *testing.T) {
	hub := NewHub()
	gone, live := &fakeConn{}, &fakeConn{}
	sub := hub.Subscribe(gone)
	hub.Subscribe(live)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.True(t, gone.isClosed())
	assert.Equal(t, 1, hub.Len())

	hub.Publish(Message{Type: EventNewOrder, Data: 1})

	require.Eventually(t, func() bool { return len(live.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, gone.received())
}

func TestLateSubscriberMissesEarlierMessages(t *testing.T) {
	hub := NewHub()
	hub.Publish(Message{Type: EventNewOrder, Data: 1})

	late := &fakeConn{}
	hub.Subscribe(late)
	hub.Publish(Message{Type: EventNewOrder, Data: 2})

	require.Eventually(t, func() bool { return len(late.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, string(late.received()[0]), `"data":2`)
}

func TestFailedWriteRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{failWith: errors.New("broken pipe")}
	sub := hub.Subscribe(broken)

	hub.Publish(Message{Type: EventNewOrder, Data: 1})

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscriber was not removed after a failed write")
	}
	assert.Equal(t, 0, hub.Len())
	assert.True(t, broken.isClosed())
}

func TestPublishDoesNotBlockOnSlowViewer(t *testing.T) {
	hub := NewHub()
	slow := &fakeConn{block: make(chan struct{})}
	defer close(slow.block)
	hub.Subscribe(slow)

	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultBufferSize*4; i++ {
			hub.Publish(Message{Type: EventNewOrder, Data: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow viewer")
	}
}

type recordingPublisher struct {
	got []Message
}

func (r *recordingPublisher) Publish(msg Message) { r.got = append(r.got, msg) }

func TestFanoutPublishesToAllSinks(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	Fanout{a, b}.Publish(Message{Type: EventNewOrder})
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}

func TestCloseDropsAllSubscribers(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.Close()

	assert.Equal(t, 0, hub.Len())
	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
}
