package notify

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestNewCommandEmpty(t *testing.T) {
	if NewCommand("") != nil {
		t.Error("empty template should yield a nil Command")
	}
	if NewCommand("   ") != nil {
		t.Error("blank template should yield a nil Command")
	}
}

func TestExpand(t *testing.T) {
	argv := []string{"notify-send", "%channel%", "now: %title%"}
	got := expand(argv, "Groove Salad", "Artist - Track")
	want := []string{"notify-send", "Groove Salad", "now: Artist - Track"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expand() = %v, want %v", got, want)
	}
}

func TestCommandRuns(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	c := NewCommand("touch " + out)
	if c == nil {
		t.Fatal("NewCommand returned nil for a valid template")
	}
	c.Notify("Groove Salad", "Artist - Track")

	// Fire-and-forget, so poll for the side effect.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(out); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("notify command never ran")
}

type recorded struct{ calls int }

func (r *recorded) Notify(channel, title string) { r.calls++ }

func TestMultiFansOut(t *testing.T) {
	a, b := &recorded{}, &recorded{}
	Multi{a, b}.Notify("c", "t")
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("Multi delivered %d/%d calls, want 1/1", a.calls, b.calls)
	}
}
