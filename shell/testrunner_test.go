package shell

import (
	"strings"
	"testing"
)

func runScript(t *testing.T, g *Game, script string) *TestRunner {
	t.Helper()
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(r)
	for i := 0; i < 100 && !r.Done(); i++ {
		frame(g)
	}
	if !r.Done() {
		t.Fatal("script did not finish in 100 frames")
	}
	return r
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"bad json", `{`, "parse test script"},
		{"no steps", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"dance"}]}`, "unknown action"},
		{"unknown tool", `{"steps":[{"action":"tool","name":"spray"}]}`, "unknown tool"},
		{"bad color", `{"steps":[{"action":"color","color":"red"}]}`, "step 0"},
		{"bad expect color", `{"steps":[{"action":"wait"},{"action":"expect","color":"#12"}]}`, "step 1"},
		{"unknown do", `{"steps":[{"action":"do","name":"explode"}]}`, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestScriptDrawsChecksAndUndoes(t *testing.T) {
	g := newTestGame(t)
	r := runScript(t, g, `{"steps":[
		{"action":"tool","name":"pencil"},
		{"action":"color","color":"#ff0000"},
		{"action":"drag","canvas":true,"fromX":1,"fromY":1,"toX":4,"toY":1,"frames":4},
		{"action":"expect","x":1,"y":1,"color":"#ff0000"},
		{"action":"expect","x":3,"y":1,"color":"#ff0000"},
		{"action":"expect","x":4,"y":1,"color":"#ff0000"},
		{"action":"expect","x":5,"y":1,"color":"#00000000"},
		{"action":"do","name":"undo"},
		{"action":"expect","x":1,"y":1,"color":"#00000000"},
		{"action":"screenshot","label":"after undo"}
	]}`)

	if f := r.Failures(); len(f) != 0 {
		t.Errorf("failures: %v", f)
	}
	h := g.Editor().History()
	if h.UndoLen() != 0 || h.RedoLen() != 1 {
		t.Errorf("history = %d undo, %d redo; want 0, 1", h.UndoLen(), h.RedoLen())
	}
	if len(g.screenshotQueue) != 1 || g.screenshotQueue[0] != "after undo" {
		t.Errorf("screenshot queue = %v", g.screenshotQueue)
	}
}

func TestScriptScreenCoordinates(t *testing.T) {
	g := newTestGame(t)
	// Screen (75, 45) is inside canvas pixel (5, 2).
	r := runScript(t, g, `{"steps":[
		{"action":"color","color":"#0000ff"},
		{"action":"click","x":75,"y":45},
		{"action":"expect","x":5,"y":2,"color":"#0000ff"}
	]}`)
	if f := r.Failures(); len(f) != 0 {
		t.Errorf("failures: %v", f)
	}
}

func TestScriptReportsFailures(t *testing.T) {
	g := newTestGame(t)
	r := runScript(t, g, `{"steps":[
		{"action":"expect","x":0,"y":0,"color":"#ffffff"},
		{"action":"expect","x":99,"y":0,"color":"#ffffff"}
	]}`)
	f := r.Failures()
	if len(f) != 2 {
		t.Fatalf("failures = %v, want 2", f)
	}
	if !strings.Contains(f[0], "#00000000") || !strings.Contains(f[1], "outside") {
		t.Errorf("failure messages = %v", f)
	}
}

func TestScriptWait(t *testing.T) {
	g := newTestGame(t)
	r, err := LoadTestScript([]byte(`{"steps":[{"action":"wait","frames":3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(r)
	frames := 0
	for !r.Done() {
		frame(g)
		frames++
		if frames > 10 {
			t.Fatal("wait never finished")
		}
	}
	if frames != 4 {
		t.Errorf("wait 3 finished after %d frames, want 4", frames)
	}
}
