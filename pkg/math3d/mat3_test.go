package math3d

import (
	"math"
	"testing"
)

func TestYawRotationZero(t *testing.T) {
	m := YawRotation(0)
	if m != Identity3() {
		t.Errorf("YawRotation(0) = %v, want identity", m)
	}
}

func TestYawRotationColumns(t *testing.T) {
	yaw := 0.7
	m := YawRotation(yaw)

	if got := m.Col(1); got != Up() {
		t.Errorf("column 1 = %v, want fixed up axis", got)
	}
	want0 := V3(math.Cos(yaw), 0, -math.Sin(yaw))
	if !m.Col(0).ApproxEqual(want0, 1e-12) {
		t.Errorf("column 0 = %v, want %v", m.Col(0), want0)
	}
	want2 := V3(math.Sin(yaw), 0, math.Cos(yaw))
	if !m.Col(2).ApproxEqual(want2, 1e-12) {
		t.Errorf("column 2 = %v, want %v", m.Col(2), want2)
	}
}

func TestYawRotationIsOrthonormal(t *testing.T) {
	for _, yaw := range []float64{-2.5, -0.1, 0.3, 1, math.Pi} {
		m := YawRotation(yaw)
		if d := m.Determinant(); math.Abs(d-1) > 1e-12 {
			t.Errorf("yaw %v: determinant = %v, want 1", yaw, d)
		}
		p := m.Transpose().Mul(m)
		for i := range 9 {
			if math.Abs(p[i]-Identity3()[i]) > 1e-12 {
				t.Fatalf("yaw %v: RᵀR = %v, want identity", yaw, p)
			}
		}
	}
}

func TestMat3MulVec3(t *testing.T) {
	// Quarter turn maps forward (+Z) onto +X.
	m := YawRotation(math.Pi / 2)
	got := m.MulVec3(V3(0, 0, 1))
	if !got.ApproxEqual(V3(1, 0, 0), 1e-12) {
		t.Errorf("R * (0,0,1) = %v, want (1,0,0)", got)
	}
}

func TestDet3(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec3
		want    float64
	}{
		{"identity", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1), 1},
		{"swapped columns", V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, 1), -1},
		{"scaled", V3(2, 0, 0), V3(0, 3, 0), V3(0, 0, 4), 24},
		{"singular", V3(1, 2, 3), V3(2, 4, 6), V3(0, 1, 0), 0},
		{"general", V3(1, 2, 3), V3(0, 1, 4), V3(5, 6, 0), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Det3(tc.a, tc.b, tc.c)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Det3 = %v, want %v", got, tc.want)
			}
			triple := tc.a.Dot(tc.b.Cross(tc.c))
			if math.Abs(got-triple) > 1e-12 {
				t.Errorf("Det3 = %v, triple product = %v", got, triple)
			}
		})
	}
}
