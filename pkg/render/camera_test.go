package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/cornell/pkg/math3d"
)

func TestCameraRayThroughCenter(t *testing.T) {
	tests := []struct {
		name string
		yaw  float64
		want math3d.Vec3
	}{
		{"no yaw", 0, math3d.V3(0, 0, 1)},
		{"quarter turn", math.Pi / 2, math3d.V3(1, 0, 0)},
		{"half turn", math.Pi, math3d.V3(0, 0, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera(math3d.V3(1, 2, 3), tc.yaw, 500)
			r := cam.Ray(250, 250, 500, 500)
			if r.Origin != cam.Position {
				t.Errorf("origin = %v, want camera position", r.Origin)
			}
			if !r.Direction.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("direction = %v, want %v", r.Direction, tc.want)
			}
		})
	}
}

func TestCameraRayDirection(t *testing.T) {
	cam := NewCamera(math3d.Vec3{}, 0, 100)

	// Pixel (300, 150) of 400×300 sits at (100, 0) from the center.
	r := cam.Ray(300, 150, 400, 300)
	want := math3d.V3(100, 0, 100).Normalize()
	if !r.Direction.ApproxEqual(want, 1e-12) {
		t.Errorf("direction = %v, want %v", r.Direction, want)
	}
	if math.Abs(r.Direction.Len()-1) > 1e-12 {
		t.Errorf("direction not normalized: %v", r.Direction.Len())
	}
}

func TestCameraYawMatrix(t *testing.T) {
	cam := NewCamera(math3d.Vec3{}, 0.3, 1)
	cam.SetYaw(0.5)

	if math.Abs(cam.Yaw()-0.5) > 1e-12 {
		t.Errorf("yaw = %v, want 0.5", cam.Yaw())
	}
	rot := cam.rotation
	if rot.Col(1) != math3d.Up() {
		t.Errorf("column 1 = %v, want (0,1,0)", rot.Col(1))
	}
	wantFwd := math3d.V3(math.Sin(0.5), 0, math.Cos(0.5))
	if !cam.Forward().ApproxEqual(wantFwd, 1e-12) {
		t.Errorf("forward = %v, want %v", cam.Forward(), wantFwd)
	}
	wantRight := math3d.V3(math.Cos(0.5), 0, -math.Sin(0.5))
	if !rot.Col(0).ApproxEqual(wantRight, 1e-12) {
		t.Errorf("right = %v, want %v", rot.Col(0), wantRight)
	}
}

func TestCameraDepth(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, -3), math.Pi/2, 500)

	tests := []struct {
		name string
		p    math3d.Vec3
		want float64
	}{
		{"ahead", math3d.V3(2, 0, -3), 2},
		{"beside", math3d.V3(0, 1, 0), 0},
		{"behind", math3d.V3(-0.5, 4, -3), -0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cam.Depth(tc.p); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Depth(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{-4, 0},
		{0, 0},
		{1, 1},
		{2, 0},
		{3, 0},
		{4, 2},
		{8, 0},
		{9, 3},
		{16, 4},
	}
	for _, tc := range tests {
		if got := GridSize(tc.n); got != tc.want {
			t.Errorf("GridSize(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestCameraRays(t *testing.T) {
	cam := NewCamera(math3d.Vec3{}, 0.2, 50)

	single, err := cam.Rays(7, 9, 40, 30, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(single) != 1 || single[0] != cam.Ray(7, 9, 40, 30) {
		t.Errorf("single sample should be the pixel ray, got %v", single)
	}

	grid, err := cam.Rays(7, 9, 40, 30, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []math3d.Vec3{
		cam.Ray(6.75, 8.75, 40, 30).Direction,
		cam.Ray(7.25, 8.75, 40, 30).Direction,
		cam.Ray(6.75, 9.25, 40, 30).Direction,
		cam.Ray(7.25, 9.25, 40, 30).Direction,
	}
	if len(grid) != len(want) {
		t.Fatalf("got %d rays, want %d", len(grid), len(want))
	}
	for i := range want {
		if !grid[i].Direction.ApproxEqual(want[i], 1e-12) {
			t.Errorf("ray %d = %v, want %v", i, grid[i].Direction, want[i])
		}
	}

	again, _ := cam.Rays(7, 9, 40, 30, 4)
	for i := range grid {
		if grid[i] != again[i] {
			t.Error("sampling is not deterministic")
		}
	}

	if _, err := cam.Rays(0, 0, 40, 30, 5); !errors.Is(err, ErrSampleCount) {
		t.Errorf("Rays(n=5) error = %v, want ErrSampleCount", err)
	}
}

func TestSampleOffsetsCenters(t *testing.T) {
	offsets, err := SampleOffsets(9)
	if err != nil {
		t.Fatal(err)
	}
	var sx, sy float64
	for _, o := range offsets {
		if o[0] <= -0.5 || o[0] >= 0.5 || o[1] <= -0.5 || o[1] >= 0.5 {
			t.Errorf("offset %v outside the pixel", o)
		}
		sx += o[0]
		sy += o[1]
	}
	if math.Abs(sx) > 1e-12 || math.Abs(sy) > 1e-12 {
		t.Errorf("offsets not centered: sum = (%v, %v)", sx, sy)
	}
	if math.Abs(offsets[0][0]+1.0/3) > 1e-12 || math.Abs(offsets[0][1]+1.0/3) > 1e-12 {
		t.Errorf("first offset = %v, want (-1/3, -1/3)", offsets[0])
	}
}

func TestCameraProjectInvertsRay(t *testing.T) {
	cam := NewCamera(math3d.V3(0.3, -0.2, -3), 0.4, 120)
	const w, h = 200, 160

	for _, px := range [][2]float64{{100, 80}, {10.5, 20.25}, {190, 150}} {
		r := cam.Ray(px[0], px[1], w, h)
		x, y, ok := cam.Project(r.Origin.Add(r.Direction.Scale(4)), w, h)
		if !ok {
			t.Fatalf("point along ray through %v not visible", px)
		}
		if math.Abs(x-px[0]) > 1e-9 || math.Abs(y-px[1]) > 1e-9 {
			t.Errorf("Project = (%v, %v), want %v", x, y, px)
		}
	}

	behind := cam.Position.Sub(cam.Forward())
	if _, _, ok := cam.Project(behind, w, h); ok {
		t.Error("point behind the camera reported visible")
	}
}

func BenchmarkCameraRays(b *testing.B) {
	cam := NewCamera(math3d.V3(0, 0, -3), 0, 500)
	for b.Loop() {
		_, _ = cam.Rays(120, 240, 500, 500, 4)
	}
}
