package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"

	"cardforge/models"
	"cardforge/pkg/card"
)

// flowStep tracks which field a chat is being asked for next.
type flowStep int

const (
	stepBattery flowStep = iota
	stepTime
	stepAmount
	stepWallet
	stepDone // flow finished; state kept only for late in-flight messages
)

type flowState struct {
	mu     sync.Mutex
	step   flowStep
	values card.Values
}

// flows holds one in-progress collection per chat. Flows are independent:
// each reads only a registry snapshot at render time, so concurrent chats
// never observe a calibration session's in-progress edits.
var flows = struct {
	sync.Mutex
	m map[string]*flowState
}{m: make(map[string]*flowState)}

const (
	promptBattery = "Hi! I will build a card from the template.\n\nEnter the battery percentage (0-100):"
	promptTime    = "Now enter the time (HH:MM), e.g. 08:52:"
	promptAmount  = "Enter the amount (e.g. 0.558938487):"
	promptWallet  = "Enter the wallet address (one line):"
)

// flowReply is what one message exchange produces: either a next prompt or
// a finished artifact.
type flowReply struct {
	Prompt   string `json:"prompt,omitempty"`
	Retry    bool   `json:"retry,omitempty"`
	Done     bool   `json:"done,omitempty"`
	OpID     string `json:"op_id,omitempty"`
	Artifact string `json:"artifact,omitempty"`
}

// advanceFlow feeds one user message into a chat's collection flow.
// Validation failures produce a retry prompt with the reason and keep the
// flow on the same step. The per-state mutex serializes concurrent
// messages for the same chat; gin runs each request on its own goroutine
// and there is no other transport layer to do it.
func advanceFlow(chatID, text string) (flowReply, error) {
	flows.Lock()
	st, ok := flows.m[chatID]
	if !ok {
		st = &flowState{step: stepBattery}
		flows.m[chatID] = st
		flows.Unlock()
		return flowReply{Prompt: promptBattery}, nil
	}
	flows.Unlock()

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.step == stepDone {
		// this chat's flow finished while the message was in flight;
		// start over
		flows.Lock()
		if cur := flows.m[chatID]; cur == nil || cur == st {
			flows.m[chatID] = &flowState{step: stepBattery}
		}
		flows.Unlock()
		return flowReply{Prompt: promptBattery}, nil
	}

	switch st.step {
	case stepBattery:
		st.values.Battery = card.ClampBattery(text)
		st.step = stepTime
		return flowReply{Prompt: promptTime}, nil

	case stepTime:
		t, err := card.ValidateTime(text)
		if err != nil {
			return flowReply{Prompt: fmt.Sprintf("%v\nTry again (e.g. 08:52):", err), Retry: true}, nil
		}
		st.values.Time = t
		st.step = stepAmount
		return flowReply{Prompt: promptAmount}, nil

	case stepAmount:
		a, err := card.NormalizeAmount(text)
		if err != nil {
			return flowReply{Prompt: fmt.Sprintf("%v\nTry again (e.g. 0.558938487):", err), Retry: true}, nil
		}
		st.values.Amount = a
		st.step = stepWallet
		return flowReply{Prompt: promptWallet}, nil

	case stepWallet:
		w, err := card.ValidateWallet(text)
		if err != nil {
			return flowReply{Prompt: fmt.Sprintf("%v\nEnter it again:", err), Retry: true}, nil
		}
		st.values.Wallet = w
		reply, err := finishFlow(st.values)
		if err != nil {
			return flowReply{}, err
		}
		st.step = stepDone
		flows.Lock()
		if flows.m[chatID] == st {
			delete(flows.m, chatID)
		}
		flows.Unlock()
		return reply, nil
	}
	return flowReply{}, fmt.Errorf("flow in unknown step %d", st.step)
}

// finishFlow renders the card for a completed set of values and records it
// in the ledger. Each render gets its own artifact path so concurrent
// chats cannot overwrite each other's output before delivery.
func finishFlow(v card.Values) (flowReply, error) {
	opID := card.NewOpID()
	name := artifactName(opID)
	outPath := filepath.Join(outDir, name)
	if err := renderer.Render(registry.Snapshot(), v, opID, outPath); err != nil {
		return flowReply{}, err
	}
	recordOperation(models.Operation{
		OpID:         opID,
		Battery:      v.Battery,
		TimeOfDay:    v.Time,
		Amount:       v.Amount,
		Wallet:       v.Wallet,
		ArtifactPath: outPath,
	})
	return flowReply{Done: true, OpID: opID, Artifact: "/artifacts/" + name}, nil
}

// artifactName builds a per-request unique file name: the op id plus a
// random hex suffix, since op ids themselves may collide.
func artifactName(opID string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("card_%s_%s.png", opID, hex.EncodeToString(b))
}
