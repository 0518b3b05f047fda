package main

import (
	"net/http"
	"strings"
	"sync"
	"testing"
)

// Concurrent messages for the same chat must be serialized by the flow
// itself: gin runs every request on its own goroutine and there is no
// other transport layer to do it. Run with -race.
func TestConcurrentMessagesSameChatAreSerialized(t *testing.T) {
	r := setupTestServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := performRequest(r, http.MethodPost, "/flow/shared/message", jsonBody(t, map[string]string{"text": "50"}), "")
			if resp.Code != 200 {
				t.Errorf("concurrent message: status=%d", resp.Code)
			}
		}()
	}
	wg.Wait()

	// whatever step the burst left the flow on, a fresh flow must still
	// complete cleanly
	flows.Lock()
	delete(flows.m, "shared")
	flows.Unlock()
	sendFlow(t, r, "shared", "/start")
	sendFlow(t, r, "shared", "87")
	sendFlow(t, r, "shared", "08:52")
	sendFlow(t, r, "shared", "0.5")
	reply := sendFlow(t, r, "shared", strings.Repeat("q", 20))
	if !reply.Done {
		t.Fatalf("flow did not complete after concurrent burst: %+v", reply)
	}
}

// A message that raced with its own flow's completion starts a new flow
// instead of replaying the finished wallet step.
func TestLateMessageAfterFinishRestarts(t *testing.T) {
	r := setupTestServer(t)

	flows.Lock()
	flows.m["late"] = &flowState{step: stepDone}
	flows.Unlock()

	reply := sendFlow(t, r, "late", "leftover text")
	if reply.Done || !strings.Contains(reply.Prompt, "battery") {
		t.Fatalf("late message should restart the flow, got %+v", reply)
	}

	flows.Lock()
	st := flows.m["late"]
	flows.Unlock()
	if st == nil || st.step != stepBattery {
		t.Fatalf("expected a fresh flow on the battery step, got %+v", st)
	}
}
