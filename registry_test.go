package uci

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func declared(t *testing.T, lines ...string) *Registry {
	t.Helper()
	r := newRegistry()
	for _, line := range lines {
		d, ok := ParseOptionDecl(line)
		if !ok {
			t.Fatalf("bad declaration %q", line)
		}
		r.declare(d)
	}
	return r
}

func TestRegistry_DeclareOrderAndDefaults(t *testing.T) {
	r := declared(t,
		"option name Threads type spin default 1 min 1 max 1024",
		"option name Clear Hash type button",
		"option name SyzygyPath type string default <empty>",
	)
	if got, want := r.Names(), []string{"Threads", "Clear Hash", "SyzygyPath"}; !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if v, ok := r.Get("Threads"); !ok || v != "1" {
		t.Errorf("Get(Threads) = %q, %v", v, ok)
	}
	if v, ok := r.Get("Clear Hash"); !ok || v != "" {
		t.Errorf("Get(Clear Hash) = %q, %v; buttons are stored empty", v, ok)
	}
	if v, ok := r.Get("SyzygyPath"); !ok || v != "" {
		t.Errorf("Get(SyzygyPath) = %q, %v", v, ok)
	}
	if _, ok := r.Get("Hash"); ok {
		t.Error("undeclared option should be absent")
	}
}

func TestRegistry_RedeclareKeepsPosition(t *testing.T) {
	r := declared(t,
		"option name A type spin default 1",
		"option name B type spin default 2",
		"option name A type spin default 3",
	)
	if got := r.Names(); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("Names() = %v", got)
	}
	if v, _ := r.Get("A"); v != "3" {
		t.Errorf("Get(A) = %q, want last declaration", v)
	}
}

func TestRegistry_Sealed(t *testing.T) {
	r := declared(t, "option name Hash type spin default 16")
	r.seal()
	if r.declare(OptionDecl{Name: "Late"}) {
		t.Fatal("declare after seal should report false")
	}
	if r.Has("Late") {
		t.Fatal("sealed registry accepted a declaration")
	}
}

func TestRegistry_UpdateNeverInserts(t *testing.T) {
	r := declared(t, "option name Hash type spin default 16")
	if err := r.update("Hash", "64"); err != nil {
		t.Fatalf("update(Hash): %v", err)
	}
	if v, _ := r.Get("Hash"); v != "64" {
		t.Errorf("Get(Hash) = %q, want 64", v)
	}
	err := r.update("Threads", "2")
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("update(Threads) = %v, want ErrUnknownOption", err)
	}
	if r.Has("Threads") || r.Len() != 1 {
		t.Error("update inserted an undeclared option")
	}
	if err := r.checkKnown("Threads"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("checkKnown(Threads) = %v", err)
	}
	if err := r.checkKnown("Hash"); err != nil {
		t.Errorf("checkKnown(Hash) = %v", err)
	}
}

func TestRegistry_CopiesAreIsolated(t *testing.T) {
	r := declared(t, "option name Style type combo default Normal var Solid var Normal")
	snap := r.Snapshot()
	snap["Style"] = "mutated"
	names := r.Names()
	names[0] = "mutated"
	d, _ := r.Declaration("Style")
	d.Vars[0] = "mutated"

	if v, _ := r.Get("Style"); v != "Normal" {
		t.Errorf("Snapshot aliases registry: %q", v)
	}
	if r.Names()[0] != "Style" {
		t.Error("Names aliases registry")
	}
	if d2, _ := r.Declaration("Style"); d2.Vars[0] != "Solid" {
		t.Error("Declaration aliases registry")
	}
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := declared(t, "option name Hash type spin default 16")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = r.Get("Hash")
				_ = r.Snapshot()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		_ = r.update("Hash", "32")
	}
	wg.Wait()
}
