package lod

// upgradeMargin is the band above the target that a frame rate must
// clear before culled buckets come back. Rates inside
// (target, target+margin] hold the current level.
const upgradeMargin = 4

// idleResetTicks is how many camera-idle ticks pass before culling
// fully resets. Static views render at full fidelity.
const idleResetTicks = 3

// Object is the per-object control surface the manager drives.
type Object interface {
	TriangleCount() int
	SetLodCulled(culled bool)
}

// Config tunes a culling manager.
type Config struct {
	TargetFPS float64
	Levels    []int // descending triangle-count thresholds
}

// DefaultConfig returns the stock target and bucket thresholds.
func DefaultConfig() Config {
	return Config{
		TargetFPS: 30,
		Levels:    []int{2000, 600, 150, 80, 20},
	}
}

// CullingManager holds one model's frame rate near the target by
// culling triangle-count buckets, heaviest first. Objects partition
// into buckets once at construction; objects below the smallest
// threshold land in bucket 0 and are never culled.
type CullingManager struct {
	targetFPS float64
	levels    []int
	buckets   map[int][]Object

	// lodLevelIndex is the cull depth: buckets levels[0:lodLevelIndex]
	// are currently culled.
	lodLevelIndex int
	withTarget    int
	withoutTarget int
	idleTicks     int
	culled        int
}

// NewCullingManager buckets the objects and returns an idle manager.
func NewCullingManager(objects []Object, cfg Config) *CullingManager {
	def := DefaultConfig()
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = def.TargetFPS
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = def.Levels
	}

	m := &CullingManager{
		targetFPS: cfg.TargetFPS,
		levels:    append([]int(nil), cfg.Levels...),
		buckets:   map[int][]Object{},
	}
	for _, obj := range objects {
		key := m.bucketFor(obj.TriangleCount())
		m.buckets[key] = append(m.buckets[key], obj)
	}
	return m
}

// bucketFor returns the first threshold the triangle count meets, or 0
// for objects too small to ever cull.
func (m *CullingManager) bucketFor(triangles int) int {
	for _, level := range m.levels {
		if triangles >= level {
			return level
		}
	}
	return 0
}

// TargetFPS returns the frame rate the manager defends.
func (m *CullingManager) TargetFPS() float64 { return m.targetFPS }

// LodLevelIndex returns the current cull depth, 0 when nothing is
// culled.
func (m *CullingManager) LodLevelIndex() int { return m.lodLevelIndex }

// CulledObjects returns how many objects are currently culled.
func (m *CullingManager) CulledObjects() int { return m.culled }

// tick advances the manager by one frame. Culling only acts while the
// camera moves; once it has been still past the idle window, every
// bucket comes back.
func (m *CullingManager) tick(fps float64, cameraMoved bool) {
	if !cameraMoved {
		m.idleTicks++
		if m.idleTicks > idleResetTicks {
			m.ResetLodCulling()
		}
		return
	}
	m.idleTicks = 0
	if fps < 0 {
		return
	}
	m.ApplyLodCulling(fps)
}

// ApplyLodCulling feeds one frame rate sample through the hysteresis
// state machine. A rate below target culls the next bucket on the
// first sample; recovery needs two consecutive samples above
// target+margin before a bucket returns. Reports whether the cull
// depth changed.
func (m *CullingManager) ApplyLodCulling(fps float64) bool {
	if fps < 0 {
		return false
	}
	changed := false
	switch {
	case fps < m.targetFPS:
		m.withTarget = 0
		m.withoutTarget++
		if m.withoutTarget > 0 {
			m.withoutTarget = 0
			changed = m.degrade()
		}
	case fps > m.targetFPS+upgradeMargin:
		m.withoutTarget = 0
		m.withTarget++
		if m.withTarget > 1 {
			m.withTarget = 0
			changed = m.upgrade()
		}
	}
	return changed
}

// ResetLodCulling unwinds every culled bucket. Reports whether any
// bucket was culled; at depth 0 it is a no-op.
func (m *CullingManager) ResetLodCulling() bool {
	changed := false
	for m.upgrade() {
		changed = true
	}
	return changed
}

// degrade culls the bucket at the current depth and moves one level
// deeper.
func (m *CullingManager) degrade() bool {
	if m.lodLevelIndex >= len(m.levels) {
		return false
	}
	m.setBucketCulled(m.levels[m.lodLevelIndex], true)
	m.lodLevelIndex++
	return true
}

// upgrade moves one level back and un-culls the bucket that becomes
// current.
func (m *CullingManager) upgrade() bool {
	if m.lodLevelIndex == 0 {
		return false
	}
	m.lodLevelIndex--
	m.setBucketCulled(m.levels[m.lodLevelIndex], false)
	return true
}

func (m *CullingManager) setBucketCulled(level int, culled bool) {
	for _, obj := range m.buckets[level] {
		obj.SetLodCulled(culled)
	}
	if culled {
		m.culled += len(m.buckets[level])
	} else {
		m.culled -= len(m.buckets[level])
	}
}
