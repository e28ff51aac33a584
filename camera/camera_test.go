package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)

	// Should be centered on the domain
	if cam.X != 960 || cam.Y != 720 {
		t.Errorf("expected camera at (960, 720), got (%f, %f)", cam.X, cam.Y)
	}
	// Domain is 1.5x the screen, so it fits at 2/3 zoom
	if !near(cam.Zoom, 2.0/3.0) {
		t.Errorf("expected zoom 0.667, got %f", cam.Zoom)
	}
}

func TestFitUsesTighterAxis(t *testing.T) {
	// Wide viewport, square domain: height limits
	cam := New(1600, 800, 400, 400)
	if !near(cam.Zoom, 2) {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestCornersMapWithYFlip(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)

	tests := []struct {
		name   string
		wx, wy float32
		sx, sy float32
	}{
		{"origin is bottom-left", 0, 0, 0, 960},
		{"top-right", 1920, 1440, 1280, 0},
		{"top-left", 0, 1440, 0, 0},
		{"center", 960, 720, 640, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := cam.WorldToScreen(tt.wx, tt.wy)
			if !near(sx, tt.sx) || !near(sy, tt.sy) {
				t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)", tt.wx, tt.wy, sx, sy, tt.sx, tt.sy)
			}
		})
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)
	cam.ZoomBy(1.7)
	cam.Pan(50, -30)

	testCases := []struct{ sx, sy float32 }{
		{640, 480},  // center
		{100, 100},  // top-left
		{1200, 900}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanDirection(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)
	cam.ZoomBy(2)
	x0, y0 := cam.X, cam.Y

	// Dragging down on screen moves the view down in world space
	cam.Pan(0, 100)
	if cam.Y >= y0 {
		t.Errorf("expected Y to decrease, got %f (was %f)", cam.Y, y0)
	}
	cam.Pan(100, 0)
	if cam.X <= x0 {
		t.Errorf("expected X to increase, got %f (was %f)", cam.X, x0)
	}
}

func TestPanClampsToDomain(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)
	cam.Pan(-1e6, 1e6)
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected center clamped to (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomLimits(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestResizeKeepsRelativeZoom(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)
	cam.ZoomBy(2)

	cam.Resize(640, 480)
	if !near(cam.MinZoom, 1.0/3.0) {
		t.Errorf("expected min zoom 0.333, got %f", cam.MinZoom)
	}
	if !near(cam.Zoom, 2*cam.MinZoom) {
		t.Errorf("expected zoom to stay 2x fit, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)
	cam.ZoomBy(4)

	if !cam.IsVisible(cam.X, cam.Y, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(0, 0, 1) {
		t.Error("far corner should not be visible when zoomed in")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 960, 1920, 1440)
	cam.ZoomBy(3)
	cam.Pan(200, 200)

	cam.Reset()
	if cam.X != 960 || cam.Y != 720 || cam.Zoom != cam.MinZoom {
		t.Errorf("expected reset to fit view, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(800, 600, 800, 600)

	sx, sy := float32(600), float32(150)
	wx, wy := cam.ScreenToWorld(sx, sy)
	cam.ZoomAt(sx, sy, 2)

	if !near(cam.Zoom, 2) {
		t.Fatalf("expected zoom 2, got %f", cam.Zoom)
	}
	gx, gy := cam.WorldToScreen(wx, wy)
	if !near(gx, sx) || !near(gy, sy) {
		t.Errorf("world point moved on screen: (%f, %f) -> (%f, %f)", sx, sy, gx, gy)
	}
}
