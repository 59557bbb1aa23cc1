package telemetry

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/milk9111/locomotion/locomotion"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Publish(locomotion.Signals{
		Tick:     3,
		State:    locomotion.StateRunning,
		Grounded: true,
		Facing:   locomotion.FacingLeft,
	}, []locomotion.Event{{Kind: locomotion.EventLanded, Tick: 3}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var frame struct {
		Type    string `json:"type"`
		Signals struct {
			State  string `json:"state"`
			Facing string `json:"facing"`
			Tick   uint64 `json:"tick"`
		} `json:"signals"`
		Events []struct {
			Kind string `json:"kind"`
		} `json:"events"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame.Type != "tick" || frame.Signals.State != "running" || frame.Signals.Facing != "left" || frame.Signals.Tick != 3 {
		t.Fatalf("unexpected frame %s", msg)
	}
	if len(frame.Events) != 1 || frame.Events[0].Kind != "landed" {
		t.Fatalf("unexpected events %s", msg)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestPublishWithoutViewers(t *testing.T) {
	hub := NewHub(nil)
	hub.Publish(locomotion.Signals{}, nil)
	hub.Close()
	if hub.ClientCount() != 0 {
		t.Fatal("expected no viewers")
	}
}
