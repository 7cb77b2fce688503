package domain

import (
	"encoding/json"
	"fmt"
)

// StatusStage is the canonical order status. The four-boolean view shown
// to customers is derived from it, never stored.
type StatusStage int

const (
	StageReceived StatusStage = iota
	StagePreparing
	StageReady
	StageCompleted
)

var stageNames = [...]string{"received", "preparing", "ready", "completed"}

func (s StatusStage) String() string {
	if s < StageReceived || s > StageCompleted {
		return "received"
	}
	return stageNames[s]
}

// ParseStage maps a raw backend status string to a stage. The legacy
// "pending" value normalizes to received.
func ParseStage(raw string) (StatusStage, bool) {
	switch raw {
	case "pending", "received":
		return StageReceived, true
	case "preparation", "preparing":
		return StagePreparing, true
	case "ready":
		return StageReady, true
	case "completed":
		return StageCompleted, true
	}
	return StageReceived, false
}

func (s StatusStage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StatusStage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	stage, ok := ParseStage(raw)
	if !ok {
		return fmt.Errorf("unknown order status %q", raw)
	}
	*s = stage
	return nil
}

// StageView is the denormalized checklist shown on the tracking screen.
// Flags are monotone: completed implies ready implies preparation implies
// received.
type StageView struct {
	Received       bool `json:"received"`
	Preparation    bool `json:"preparation"`
	ReadyForPickup bool `json:"ready_for_pickup"`
	Completed      bool `json:"completed"`
}

func (s StatusStage) View() StageView {
	return StageView{
		Received:       s >= StageReceived,
		Preparation:    s >= StagePreparing,
		ReadyForPickup: s >= StageReady,
		Completed:      s >= StageCompleted,
	}
}
