package clutter

import (
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "key", "key": "Space"},
			{"action": "screenshot", "label": "after-click"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
		{"unknown key", `{"steps": [{"action": "key", "key": "NoSuchKey"}]}`},
	}
	for _, tt := range tests {
		if _, err := LoadTestScript([]byte(tt.data)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRunnerStep_Click(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	got := collectEvents(s)

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 60}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	tickEvery(c, ft, 16, 3)
	if len(*got) != 2 {
		t.Fatalf("got %d events, want 2", len(*got))
	}
	if (*got)[0].Type != EventPointerDown || (*got)[0].X != 50 || (*got)[0].Y != 60 {
		t.Errorf("first event = %+v, want pointer-down at (50,60)", (*got)[0])
	}
	if !runner.Done() {
		t.Error("runner not done")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "x"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	// The wait step runs on the first dispatch and holds two more.
	tickEvery(c, ft, 16, 3)
	if len(s.screenshots) != 0 {
		t.Fatalf("screenshot queued during wait")
	}
	tickEvery(c, ft, 16, 1)
	if len(s.screenshots) != 1 || s.screenshots[0].label != "x" {
		t.Errorf("screenshots = %+v, want one labeled x", s.screenshots)
	}
	if !runner.Done() {
		t.Error("runner not done after last step")
	}
}

func TestRunnerKeepsClockRunning(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	s.needsRedraw = false

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "wait", "frames": 5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)
	if _, ok := c.NextFrameDelay(); !ok {
		t.Error("clock idle while a test runner is active")
	}
}
