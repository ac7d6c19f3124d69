package lod

import (
	"testing"
	"time"
)

type fakeObject struct {
	triangles int
	lodCulled bool
}

func (o *fakeObject) TriangleCount() int       { return o.triangles }
func (o *fakeObject) SetLodCulled(culled bool) { o.lodCulled = culled }

// feedTicks drives the tracker with n evenly spaced frame ticks and
// returns the next tick time.
func feedTicks(tr *FrameRateTracker, start time.Time, n int, step time.Duration, moved bool) time.Time {
	now := start
	for i := 0; i < n; i++ {
		tr.Tick(now, moved)
		now = now.Add(step)
	}
	return now
}

func TestTrackerUnknownUntilWindowFull(t *testing.T) {
	tr := NewFrameRateTracker()
	if got := tr.FPS(); got != UnknownFPS {
		t.Fatalf("FPS before any tick = %v, want %v", got, UnknownFPS)
	}
	now := time.Unix(0, 0)
	for i := 0; i < fpsWindowSize; i++ {
		tr.Tick(now, true)
		now = now.Add(25 * time.Millisecond)
		if got := tr.FPS(); got != UnknownFPS {
			t.Fatalf("FPS after %d ticks = %v, want %v", i+1, got, UnknownFPS)
		}
	}
	tr.Tick(now, true)
	if got := tr.FPS(); got == UnknownFPS {
		t.Errorf("FPS after %d ticks still unknown", fpsWindowSize+1)
	}
}

func TestTrackerFPS(t *testing.T) {
	tr := NewFrameRateTracker()
	feedTicks(tr, time.Unix(0, 0), 5, 25*time.Millisecond, true)
	if got := tr.FPS(); got < 39.9 || got > 40.1 {
		t.Errorf("FPS for 25ms frames = %v, want 40", got)
	}

	// The window rolls: four 50ms intervals replace the 25ms ones.
	feedTicks(tr, time.Unix(0, 0).Add(150*time.Millisecond), 5, 50*time.Millisecond, true)
	if got := tr.FPS(); got < 19.9 || got > 20.1 {
		t.Errorf("FPS after slower frames = %v, want 20", got)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewFrameRateTracker()
	now := feedTicks(tr, time.Unix(0, 0), 5, 25*time.Millisecond, true)
	if tr.FPS() == UnknownFPS {
		t.Fatal("FPS unknown after a full window")
	}
	tr.Reset()
	if got := tr.FPS(); got != UnknownFPS {
		t.Errorf("FPS after Reset = %v, want %v", got, UnknownFPS)
	}
	// The first tick after a reset starts a fresh window instead of
	// recording the pause as one interval.
	feedTicks(tr, now.Add(10*time.Second), 5, 25*time.Millisecond, true)
	if got := tr.FPS(); got < 39.9 || got > 40.1 {
		t.Errorf("FPS after resumed ticks = %v, want 40", got)
	}
}

func TestBucketFor(t *testing.T) {
	m := NewCullingManager(nil, DefaultConfig())
	cases := []struct {
		triangles int
		want      int
	}{
		{5000, 2000},
		{2000, 2000},
		{1999, 600},
		{600, 600},
		{150, 150},
		{100, 80},
		{80, 80},
		{79, 20},
		{20, 20},
		{19, 0},
		{0, 0},
	}
	for _, c := range cases {
		if got := m.bucketFor(c.triangles); got != c.want {
			t.Errorf("bucketFor(%d) = %d, want %d", c.triangles, got, c.want)
		}
	}
}

// bucketSpread returns one object per default bucket plus one too
// small to ever cull.
func bucketSpread() (objs []*fakeObject, never *fakeObject) {
	for _, triangles := range []int{3000, 700, 200, 100, 50} {
		objs = append(objs, &fakeObject{triangles: triangles})
	}
	never = &fakeObject{triangles: 10}
	objs = append(objs, never)
	return objs, never
}

func asObjects(objs []*fakeObject) []Object {
	out := make([]Object, len(objs))
	for i, o := range objs {
		out[i] = o
	}
	return out
}

func TestDegradeHeaviestFirst(t *testing.T) {
	objs, never := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})

	low := 25.0
	for step := 1; step <= 5; step++ {
		if changed := m.ApplyLodCulling(low); !changed {
			t.Fatalf("degrade step %d reported no change", step)
		}
		if got := m.LodLevelIndex(); got != step {
			t.Fatalf("LodLevelIndex after step %d = %d, want %d", step, got, step)
		}
		for i, o := range objs[:5] {
			wantCulled := i < step
			if o.lodCulled != wantCulled {
				t.Errorf("step %d: object with %d triangles culled = %t, want %t",
					step, o.triangles, o.lodCulled, wantCulled)
			}
		}
	}
	if never.lodCulled {
		t.Error("object below the smallest threshold was culled")
	}
	if got := m.CulledObjects(); got != 5 {
		t.Errorf("CulledObjects = %d, want 5", got)
	}

	// Fully degraded; further low samples change nothing.
	if changed := m.ApplyLodCulling(low); changed {
		t.Error("degrade past the last bucket reported a change")
	}
	if got := m.LodLevelIndex(); got != 5 {
		t.Errorf("LodLevelIndex past full cull = %d, want 5", got)
	}
}

func TestUpgradeNeedsTwoSamples(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})

	m.ApplyLodCulling(25)
	if !objs[0].lodCulled {
		t.Fatal("heaviest bucket not culled by a low sample")
	}

	if changed := m.ApplyLodCulling(40); changed {
		t.Error("first high sample already unculled")
	}
	if changed := m.ApplyLodCulling(40); !changed {
		t.Error("second consecutive high sample did not uncull")
	}
	if objs[0].lodCulled {
		t.Error("heaviest bucket still culled after upgrade")
	}
	if got := m.LodLevelIndex(); got != 0 {
		t.Errorf("LodLevelIndex after upgrade = %d, want 0", got)
	}
}

func TestLowSampleBreaksRecoveryStreak(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})

	m.ApplyLodCulling(25)
	m.ApplyLodCulling(25)
	if got := m.LodLevelIndex(); got != 2 {
		t.Fatalf("LodLevelIndex = %d, want 2", got)
	}

	// high, low, high: the low sample resets the recovery counter, so
	// no upgrade fires (the low sample itself degrades further).
	m.ApplyLodCulling(40)
	m.ApplyLodCulling(25)
	before := m.LodLevelIndex()
	if changed := m.ApplyLodCulling(40); changed {
		t.Error("interrupted high streak still triggered an upgrade")
	}
	if got := m.LodLevelIndex(); got != before {
		t.Errorf("LodLevelIndex = %d, want %d", got, before)
	}
}

func TestDeadBandHoldsState(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})

	m.ApplyLodCulling(25)
	if got := m.LodLevelIndex(); got != 1 {
		t.Fatalf("LodLevelIndex = %d, want 1", got)
	}
	for i := 0; i < 10; i++ {
		if changed := m.ApplyLodCulling(32); changed {
			t.Fatalf("dead-band sample %d changed the cull depth", i)
		}
	}
	if got := m.LodLevelIndex(); got != 1 {
		t.Errorf("LodLevelIndex after dead-band samples = %d, want 1", got)
	}
}

func TestHysteresisBounds(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})

	// Oscillate below target and above the recovery band; the depth
	// must stay within [0, levels] and move at most one step per
	// sample.
	fps := []float64{25, 40}
	prev := m.LodLevelIndex()
	for i := 0; i < 100; i++ {
		m.ApplyLodCulling(fps[i%2])
		got := m.LodLevelIndex()
		if got < 0 || got > 5 {
			t.Fatalf("sample %d: LodLevelIndex = %d, out of [0, 5]", i, got)
		}
		if diff := got - prev; diff < -1 || diff > 1 {
			t.Fatalf("sample %d: depth jumped from %d to %d", i, prev, got)
		}
		prev = got
	}
}

func TestResetIdempotence(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})

	if m.ResetLodCulling() {
		t.Error("reset of an idle manager reported a change")
	}
	m.ApplyLodCulling(25)
	m.ApplyLodCulling(25)
	if !m.ResetLodCulling() {
		t.Error("reset of a culled manager reported no change")
	}
	if got := m.LodLevelIndex(); got != 0 {
		t.Errorf("LodLevelIndex after reset = %d, want 0", got)
	}
	if got := m.CulledObjects(); got != 0 {
		t.Errorf("CulledObjects after reset = %d, want 0", got)
	}
	if m.ResetLodCulling() {
		t.Error("repeated reset reported a change")
	}
}

func TestSteadyFrameRateNeverCulls(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})
	tr := NewFrameRateTracker()
	tr.Attach(m)

	// 25ms frames are 40 FPS, above target: nothing culls.
	feedTicks(tr, time.Unix(0, 0), 20, 25*time.Millisecond, true)
	if got := m.LodLevelIndex(); got != 0 {
		t.Errorf("LodLevelIndex = %d, want 0 at 40 FPS", got)
	}
	if got := m.CulledObjects(); got != 0 {
		t.Errorf("CulledObjects = %d, want 0", got)
	}
}

func TestSlowFramesCullAfterWindowFills(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})
	tr := NewFrameRateTracker()
	tr.Attach(m)

	// 40ms frames are 25 FPS. The first four ticks have no estimate,
	// the fifth produces the first qualifying sample and culls exactly
	// one bucket.
	feedTicks(tr, time.Unix(0, 0), 4, 40*time.Millisecond, true)
	if got := m.LodLevelIndex(); got != 0 {
		t.Fatalf("LodLevelIndex before the window filled = %d, want 0", got)
	}
	tr.Tick(time.Unix(0, 0).Add(160*time.Millisecond), true)
	if got := m.LodLevelIndex(); got != 1 {
		t.Errorf("LodLevelIndex after first estimate = %d, want 1", got)
	}
}

func TestCameraIdleResets(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})
	tr := NewFrameRateTracker()
	tr.Attach(m)

	now := feedTicks(tr, time.Unix(0, 0), 6, 40*time.Millisecond, true)
	if got := m.LodLevelIndex(); got == 0 {
		t.Fatal("slow moving frames did not cull")
	}
	depth := m.LodLevelIndex()

	// Three idle ticks hold the state, the fourth resets it.
	now = feedTicks(tr, now, 3, 40*time.Millisecond, false)
	if got := m.LodLevelIndex(); got != depth {
		t.Errorf("LodLevelIndex after 3 idle ticks = %d, want %d", got, depth)
	}
	feedTicks(tr, now, 1, 40*time.Millisecond, false)
	if got := m.LodLevelIndex(); got != 0 {
		t.Errorf("LodLevelIndex after idle reset = %d, want 0", got)
	}
	for _, o := range objs {
		if o.lodCulled {
			t.Errorf("object with %d triangles still culled after idle reset", o.triangles)
		}
	}
}

func TestDetachStopsTicks(t *testing.T) {
	objs, _ := bucketSpread()
	m := NewCullingManager(asObjects(objs), Config{TargetFPS: 30})
	tr := NewFrameRateTracker()
	tr.Attach(m)

	now := feedTicks(tr, time.Unix(0, 0), 5, 40*time.Millisecond, true)
	if got := m.LodLevelIndex(); got != 1 {
		t.Fatalf("LodLevelIndex = %d, want 1", got)
	}
	tr.Detach(m)
	feedTicks(tr, now, 10, 40*time.Millisecond, true)
	if got := m.LodLevelIndex(); got != 1 {
		t.Errorf("LodLevelIndex after detach = %d, want 1", got)
	}
}
