package sequencer

import (
	"errors"
	"sync"
	"testing"
)

const (
	maskA = Fog | Eyes
	maskB = Strobe
	maskC = Blacklight
)

type recorder struct {
	masks []Mask
}

func (r *recorder) Write(mask Mask) error {
	r.masks = append(r.masks, mask)
	return nil
}

func advanceN(t *testing.T, p *Player, n int) []Frame {
	t.Helper()
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		f, err := p.Advance()
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		frames = append(frames, f)
	}
	return frames
}

func TestSingleSequenceEmission(t *testing.T) {
	cat := MustCatalog(IdleMask, Sequence{Name: "ab", Steps: []Step{{2, maskA}, {3, maskB}}})
	rec := &recorder{}
	p := NewPlayer(cat, rec)

	if !p.Trigger() {
		t.Fatal("trigger rejected while idle")
	}
	advanceN(t, p, 6)

	want := []Mask{maskA, maskA, maskB, maskB, maskB, IdleMask}
	if len(rec.masks) != len(want) {
		t.Fatalf("got %d writes, want %d", len(rec.masks), len(want))
	}
	for i := range want {
		if rec.masks[i] != want[i] {
			t.Errorf("tick %d: got %s, want %s", i+1, rec.masks[i], want[i])
		}
	}
	if p.State() != Idle {
		t.Errorf("state after show: %s, want IDLE", p.State())
	}
}

func TestCursorProgress(t *testing.T) {
	cat := MustCatalog(IdleMask, Sequence{Steps: []Step{{2, maskA}, {3, maskB}}})
	p := NewPlayer(cat, nil)
	p.Trigger()

	want := []Cursor{
		{0, 0, 1},
		{0, 0, 2},
		{0, 1, 1},
		{0, 1, 2},
		{0, 1, 3},
		{IdleIndex, 0, 0},
	}
	for i, f := range advanceN(t, p, len(want)) {
		if f.Cursor != want[i] {
			t.Errorf("tick %d: cursor %+v, want %+v", i+1, f.Cursor, want[i])
		}
		if f.Tick != uint64(i+1) {
			t.Errorf("tick %d: frame tick %d", i+1, f.Tick)
		}
	}
}

func TestIdleEmitsIdleMask(t *testing.T) {
	cat := MustCatalog(Attractor|Fog, Sequence{Steps: []Step{{1, maskA}}})
	rec := &recorder{}
	p := NewPlayer(cat, rec)

	for i, f := range advanceN(t, p, 50) {
		if f.Cursor.State() != Idle {
			t.Fatalf("tick %d: left idle without trigger", i+1)
		}
		if f.Mask != Attractor|Fog {
			t.Fatalf("tick %d: mask %s", i+1, f.Mask)
		}
	}
	if len(rec.masks) != 50 {
		t.Fatalf("idle wrote %d masks, want one per tick", len(rec.masks))
	}
}

func TestTriggerIgnoredWhilePlaying(t *testing.T) {
	cat := MustCatalog(IdleMask,
		Sequence{Steps: []Step{{3, maskA}, {2, maskB}}},
		Sequence{Steps: []Step{{4, maskC}}},
	)
	p := NewPlayer(cat, nil)
	p.Trigger()

	total := int(cat.TotalTicks())
	for i := 0; i < total; i++ {
		before := p.Cursor()
		if before.State() == Playing && p.Trigger() {
			t.Fatalf("tick %d: trigger accepted while playing", i)
		}
		if p.Cursor() != before {
			t.Fatalf("tick %d: trigger changed cursor %+v -> %+v", i, before, p.Cursor())
		}
		advanceN(t, p, 1)
	}

	// Repeated triggers during the show must not queue a second show
	f := advanceN(t, p, 1)[0]
	if f.Cursor.State() != Idle {
		t.Fatalf("expected idle after %d ticks, got %s", total+1, f.Cursor)
	}
	for i, f := range advanceN(t, p, 10) {
		if f.Cursor.State() != Idle {
			t.Fatalf("tick %d after show: restarted without trigger", i)
		}
	}
}

func TestStaleTriggerFlagCleared(t *testing.T) {
	cat := MustCatalog(IdleMask, Sequence{Steps: []Step{{2, maskA}}})
	p := NewPlayer(cat, nil)
	p.Trigger()
	advanceN(t, p, 1)

	// Simulate a trigger that raced the idle->playing transition
	p.pending.Store(true)
	f := advanceN(t, p, 1)[0]
	if f.Cursor != (Cursor{0, 0, 2}) {
		t.Fatalf("stale trigger disturbed cursor: %+v", f.Cursor)
	}
	if p.pending.Load() {
		t.Fatal("stale trigger flag not consumed")
	}
	f = advanceN(t, p, 1)[0]
	if f.Cursor.State() != Idle {
		t.Fatalf("stale trigger restarted show: %s", f.Cursor)
	}
}

func TestFullChainVisitsEveryStep(t *testing.T) {
	cat := MustCatalog(IdleMask,
		Sequence{Name: "one", Steps: []Step{{2, maskA}, {1, maskB}}},
		Sequence{Name: "two", Steps: []Step{{1, maskC}}},
		Sequence{Name: "three", Steps: []Step{{3, maskB}, {2, maskA}, {1, None}}},
	)
	p := NewPlayer(cat, nil)
	p.Trigger()

	type pos struct{ anim, step int }
	var visited []pos
	total := int(cat.TotalTicks())
	for i, f := range advanceN(t, p, total) {
		if f.Cursor.State() != Playing {
			t.Fatalf("tick %d: idle before show end", i+1)
		}
		want := cat.StepAt(f.Animation, f.Step).Mask
		if f.Mask != want {
			t.Fatalf("tick %d: mask %s, want %s", i+1, f.Mask, want)
		}
		cur := pos{f.Animation, f.Step}
		if len(visited) == 0 || visited[len(visited)-1] != cur {
			visited = append(visited, cur)
		}
	}

	want := []pos{{0, 0}, {0, 1}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}

	f := advanceN(t, p, 1)[0]
	if f.Cursor.State() != Idle || f.Mask != IdleMask {
		t.Fatalf("after %d ticks: %s %s, want idle", total, f.Cursor, f.Mask)
	}
}

func TestStepHeldForItsDuration(t *testing.T) {
	cat := MustCatalog(IdleMask,
		Sequence{Steps: []Step{{4, maskA}, {1, maskB}, {7, maskC}}},
		Sequence{Steps: []Step{{5, maskB}}},
	)
	p := NewPlayer(cat, nil)
	p.Trigger()

	runs := map[[2]int]uint{}
	for _, f := range advanceN(t, p, int(cat.TotalTicks())) {
		runs[[2]int{f.Animation, f.Step}]++
	}
	for i := 0; i < cat.Len(); i++ {
		for j := 0; j < cat.StepCount(i); j++ {
			if got, want := runs[[2]int{i, j}], cat.StepAt(i, j).Duration; got != want {
				t.Errorf("animation %d step %d held %d ticks, want %d", i, j, got, want)
			}
		}
	}
}

func TestSingleStepOfOneTick(t *testing.T) {
	cat := MustCatalog(IdleMask,
		Sequence{Steps: []Step{{1, maskA}}},
		Sequence{Steps: []Step{{1, maskB}}},
	)
	p := NewPlayer(cat, nil)
	p.Trigger()

	frames := advanceN(t, p, 3)
	if frames[0].Animation != 0 || frames[0].Mask != maskA {
		t.Fatalf("tick 1: %s %s", frames[0].Cursor, frames[0].Mask)
	}
	if frames[1].Animation != 1 || frames[1].Mask != maskB {
		t.Fatalf("tick 2: %s %s, want next animation", frames[1].Cursor, frames[1].Mask)
	}
	if frames[2].Cursor.State() != Idle {
		t.Fatalf("tick 3: %s, want idle", frames[2].Cursor)
	}
}

func TestBuiltInShowRunsToIdle(t *testing.T) {
	p := NewPlayer(Show(), nil)
	p.Trigger()

	total := int(Show().TotalTicks())
	frames := advanceN(t, p, total+1)
	if frames[0].Mask != Attractor|Audio {
		t.Errorf("first frame %s, want attractor|audio", frames[0].Mask)
	}
	if last := frames[total-1]; last.Animation != Show().Len()-1 || last.Mask != Blacklight {
		t.Errorf("last show frame %s %s", last.Cursor, last.Mask)
	}
	if end := frames[total]; end.Cursor.State() != Idle || end.Mask != IdleMask {
		t.Errorf("frame after show %s %s, want idle", end.Cursor, end.Mask)
	}
}

func TestOutputErrorDoesNotStall(t *testing.T) {
	cat := MustCatalog(IdleMask, Sequence{Steps: []Step{{1, maskA}}})
	boom := errors.New("boom")
	p := NewPlayer(cat, OutputFunc(func(Mask) error { return boom }))
	p.Trigger()

	f, err := p.Advance()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if f.Cursor != (Cursor{0, 0, 1}) {
		t.Fatalf("cursor %+v after failed write", f.Cursor)
	}
	if f, _ = p.Advance(); f.Cursor.State() != Idle {
		t.Fatalf("cursor %+v, want idle", f.Cursor)
	}
}

func TestTriggerFromAnotherGoroutine(t *testing.T) {
	cat := MustCatalog(IdleMask, Sequence{Name: "ab", Steps: []Step{{2, maskA}, {3, maskB}}})
	p := NewPlayer(cat, nil)

	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			p.Trigger()
			_ = p.State()
		}
	}()

	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		f, err := p.Advance()
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, f)
	}
	wg.Wait()

	var prev uint
	for i, f := range frames {
		pos := cat.Position(f.Cursor)
		switch {
		case f.State() == Idle:
			if f.Mask != IdleMask {
				t.Fatalf("tick %d: idle frame mask %s", f.Tick, f.Mask)
			}
		case prev == 0:
			if pos != 1 {
				t.Fatalf("tick %d: show started at %s", f.Tick, f.Cursor)
			}
		case pos != prev+1:
			t.Fatalf("tick %d: jumped from %d to %d", f.Tick, prev, pos)
		}
		if i > 0 && f.State() == Idle && prev != 0 && prev != cat.TotalTicks() {
			t.Fatalf("tick %d: show cut short after %d ticks", f.Tick, prev)
		}
		prev = pos
	}
}
