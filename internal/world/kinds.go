package world

// Kind tags a per-frame behavior. The set is closed; the dispatcher matches
// it exhaustively.
type Kind int

const (
	KindControl Kind = iota
	KindDebugNudge
	KindCameraTrack
	KindSpawner
	KindAttraction
	KindLifetime
	KindScript
	kindCount
)

var kindNames = [kindCount]string{
	"control", "debug_nudge", "camera_track", "spawner", "attraction", "lifetime", "script",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds lists every behavior kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// CollisionKind tags a collision-triggered behavior.
type CollisionKind int

const (
	CollisionFloorContact CollisionKind = iota
	collisionKindCount
)

func (k CollisionKind) String() string {
	if k == CollisionFloorContact {
		return "floor_contact"
	}
	return "unknown"
}

// ParseCollisionKind maps scene names to collision kinds.
func ParseCollisionKind(s string) (CollisionKind, bool) {
	for k := CollisionKind(0); k < collisionKindCount; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// BehaviorSet is an ordered, duplicate-free list of kinds. Dispatch follows
// insertion order.
type BehaviorSet []Kind

func (s BehaviorSet) Has(k Kind) bool {
	for _, x := range s {
		if x == k {
			return true
		}
	}
	return false
}

func (s *BehaviorSet) Add(k Kind) bool {
	if s.Has(k) {
		return false
	}
	*s = append(*s, k)
	return true
}

// CollisionSet is the collision-behavior counterpart of BehaviorSet.
type CollisionSet []CollisionKind

func (s CollisionSet) Has(k CollisionKind) bool {
	for _, x := range s {
		if x == k {
			return true
		}
	}
	return false
}

func (s *CollisionSet) Add(k CollisionKind) bool {
	if s.Has(k) {
		return false
	}
	*s = append(*s, k)
	return true
}

// ParseKind maps scene names to behavior kinds.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
