package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesMatchingTableEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	received := make(chan Event, 4)
	cancel := hub.Subscribe("interviews", func(e Event) {
		received <- e
	})
	defer cancel()

	hub.Publish(Event{Table: "interviews", Action: "update", RecordID: "abc"})
	hub.Publish(Event{Table: "jobs", Action: "create", RecordID: "other"})

	select {
	case e := <-received:
		assert.Equal(t, "interviews", e.Table)
		assert.Equal(t, "update", e.Action)
		assert.Equal(t, "abc", e.RecordID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	// The jobs event must not be delivered to an interviews subscriber
	select {
	case e := <-received:
		t.Fatalf("unexpected event delivered: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	received := make(chan Event, 4)
	cancel := hub.Subscribe("mock_interview_sessions", func(e Event) {
		received <- e
	})

	hub.Publish(Event{Table: "mock_interview_sessions", Action: "create", RecordID: "1"})
	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event before cancel")
	}

	cancel()
	cancel() // second call is a no-op

	hub.Publish(Event{Table: "mock_interview_sessions", Action: "create", RecordID: "2"})
	select {
	case e := <-received:
		t.Fatalf("event delivered after cancel: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMultipleSubscribersSameTable(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		cancel := hub.Subscribe("company_research", func(Event) { wg.Done() })
		defer cancel()
	}

	hub.Publish(Event{Table: "company_research", Action: "create", RecordID: "r1"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all subscribers received the event")
	}
}

func TestPublishDoesNotBlockWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	// Hub not running: the buffered channel absorbs events and the overflow
	// path drops instead of blocking.
	for i := 0; i < 200; i++ {
		hub.Publish(Event{Table: "interviews", Action: "update", RecordID: "x"})
	}
}

func TestDispatchRemovesBackloggedClients(t *testing.T) {
	hub := NewHub()

	stale := &Client{Hub: hub, Send: make(chan []byte, 1), tables: map[string]bool{"interviews": true}}
	stale.Send <- []byte("backlog")
	healthy := &Client{Hub: hub, Send: make(chan []byte, 4), tables: map[string]bool{"interviews": true}}

	hub.clients[stale] = true
	hub.clients[healthy] = true

	hub.dispatch(Event{Table: "interviews", Action: "update", RecordID: "abc"})

	hub.mu.RLock()
	_, staleKept := hub.clients[stale]
	_, healthyKept := hub.clients[healthy]
	hub.mu.RUnlock()

	assert.False(t, staleKept, "client with a full send buffer should be dropped")
	assert.True(t, healthyKept)

	// The stale client's channel is closed so its write pump exits
	<-stale.Send
	_, open := <-stale.Send
	assert.False(t, open)

	select {
	case msg := <-healthy.Send:
		assert.Contains(t, string(msg), `"record_id":"abc"`)
	default:
		t.Fatal("healthy client did not receive the event")
	}
}

func TestCancelOnlyRemovesOwnSubscription(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	kept := make(chan Event, 1)
	cancelFirst := hub.Subscribe("interviews", func(Event) {})
	cancelKept := hub.Subscribe("interviews", func(e Event) { kept <- e })
	defer cancelKept()

	cancelFirst()

	hub.Publish(Event{Table: "interviews", Action: "delete", RecordID: "z"})

	select {
	case e := <-kept:
		require.Equal(t, "z", e.RecordID)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber lost its subscription")
	}
}
