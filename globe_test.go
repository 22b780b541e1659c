package globe

import (
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vecApproxEqual(a, b Vec3, eps float64) bool {
	return approxEqual(a[0], b[0], eps) && approxEqual(a[1], b[1], eps) && approxEqual(a[2], b[2], eps)
}

// --- Color ---

func TestHexColor(t *testing.T) {
	tests := []struct {
		hex  uint32
		want Color
	}{
		{0xffffff, Color{1, 1, 1, 1}},
		{0x000000, Color{0, 0, 0, 1}},
		{0x0088ff, Color{0, float64(0x88) / 255, 1, 1}},
		{0xffffcc, Color{1, 1, float64(0xcc) / 255, 1}},
	}
	for _, tt := range tests {
		got := HexColor(tt.hex)
		if !approxEqual(got.R, tt.want.R, epsilon) || !approxEqual(got.G, tt.want.G, epsilon) ||
			!approxEqual(got.B, tt.want.B, epsilon) || got.A != 1 {
			t.Errorf("HexColor(%#06x) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestColorLerp(t *testing.T) {
	a := Color{0, 0, 0, 0}
	b := Color{1, 0.5, 0.25, 1}
	mid := a.Lerp(b, 0.5)
	want := Color{0.5, 0.25, 0.125, 0.5}
	if mid != want {
		t.Errorf("Lerp(0.5) = %v, want %v", mid, want)
	}
	if a.Lerp(b, 0) != a || a.Lerp(b, 1) != b {
		t.Error("Lerp endpoints should return the inputs")
	}
}

func TestColorScaleKeepsAlpha(t *testing.T) {
	c := Color{0.5, 0.25, 1, 0.3}.Scale(2)
	if c != (Color{1, 0.5, 2, 0.3}) {
		t.Errorf("Scale(2) = %v", c)
	}
}

func TestColorToRGBAClamps(t *testing.T) {
	got := Color{2, -1, 0.5, 1}.toRGBA()
	want := color.NRGBA{255, 0, 128, 255}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}

// --- BlendMode.EbitenBlend ---

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		name   string
		expect ebiten.Blend
	}{
		{BlendNormal, "BlendNormal", ebiten.BlendSourceOver},
		{BlendAdd, "BlendAdd", ebiten.BlendLighter},
		{BlendNone, "BlendNone", ebiten.BlendCopy},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.EbitenBlend()
			if got != tt.expect {
				t.Errorf("%s.EbitenBlend() = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}

	zero := ebiten.Blend{}
	for _, m := range []BlendMode{BlendMultiply, BlendScreen} {
		if m.EbitenBlend() == zero {
			t.Errorf("BlendMode(%d).EbitenBlend() returned zero blend", m)
		}
	}
}

// --- Enum constant values (catch accidental iota drift) ---

func TestEnumValues(t *testing.T) {
	if BlendNormal != 0 || BlendNone != 4 {
		t.Errorf("BlendNormal, BlendNone = %d, %d, want 0, 4", BlendNormal, BlendNone)
	}
	if NodeTypeGroup != 0 || NodeTypeLight != 3 {
		t.Errorf("NodeTypeGroup, NodeTypeLight = %d, %d, want 0, 3", NodeTypeGroup, NodeTypeLight)
	}
	if EventPointerDown != 0 || EventWheel != 8 {
		t.Errorf("EventPointerDown, EventWheel = %d, %d, want 0, 8", EventPointerDown, EventWheel)
	}
	if MouseButtonLeft != 0 || MouseButtonMiddle != 2 {
		t.Errorf("MouseButtonLeft, MouseButtonMiddle = %d, %d", MouseButtonLeft, MouseButtonMiddle)
	}
	if ModShift != 1 || ModCtrl != 2 || ModAlt != 4 || ModMeta != 8 {
		t.Error("modifier bits drifted")
	}
}

func TestNodeTypeString(t *testing.T) {
	tests := map[NodeType]string{
		NodeTypeGroup:  "group",
		NodeTypeMesh:   "mesh",
		NodeTypePoints: "points",
		NodeTypeLight:  "light",
		NodeType(99):   "unknown",
	}
	for nt, want := range tests {
		if got := nt.String(); got != want {
			t.Errorf("NodeType(%d).String() = %q, want %q", nt, got, want)
		}
	}
}

// --- Latch ---

func TestLatchFiresOnce(t *testing.T) {
	var l Latch
	calls := 0
	if l.Fired() {
		t.Fatal("zero Latch should not be fired")
	}
	if !l.Fire(func() { calls++ }) {
		t.Error("first Fire should report true")
	}
	if l.Fire(func() { calls++ }) {
		t.Error("second Fire should report false")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !l.Fired() {
		t.Error("Fired should be true after Fire")
	}
}

func TestLatchNilAction(t *testing.T) {
	var l Latch
	if !l.Fire(nil) {
		t.Error("Fire(nil) should trip the latch")
	}
	if l.Fire(func() { t.Error("action ran after latch tripped") }) {
		t.Error("latch should stay tripped")
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkBlendModeMapping(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = BlendAdd.EbitenBlend()
	}
}
