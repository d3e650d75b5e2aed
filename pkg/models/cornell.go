package models

import (
	"fmt"

	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
)

// Cornell box palette.
var (
	Red    = math3d.V3(0.75, 0.15, 0.15)
	Yellow = math3d.V3(0.75, 0.75, 0.15)
	Green  = math3d.V3(0.15, 0.75, 0.15)
	Cyan   = math3d.V3(0.15, 0.75, 0.75)
	Blue   = math3d.V3(0.15, 0.15, 0.75)
	Purple = math3d.V3(0.75, 0.15, 0.75)
	White  = math3d.V3(0.75, 0.75, 0.75)
)

// cornellSide is the edge length of the box in its original units.
const cornellSide = 555.0

// CornellBox returns the classic Cornell box: a room with colored walls, a
// short red block and a tall blue block. Coordinates are scaled into
// [-1, 1]³ and x and y are flipped so that +y points down the image.
func CornellBox() (*geometry.Scene, error) {
	room, err := geometry.NewObject("room", cornellRoom())
	if err != nil {
		return nil, err
	}
	short, err := geometry.NewObject("short block", cornellBlock(Red,
		math3d.V3(290, 0, 114), math3d.V3(130, 0, 65), math3d.V3(240, 0, 272), math3d.V3(82, 0, 225), 165))
	if err != nil {
		return nil, err
	}
	tall, err := geometry.NewObject("tall block", cornellBlock(Blue,
		math3d.V3(423, 0, 247), math3d.V3(265, 0, 296), math3d.V3(472, 0, 406), math3d.V3(314, 0, 456), 330))
	if err != nil {
		return nil, err
	}

	scene, err := geometry.NewScene(room, short, tall)
	if err != nil {
		return nil, fmt.Errorf("cornell box: %w", err)
	}
	return scene, nil
}

func cornellRoom() []geometry.Triangle {
	const l = cornellSide
	a := math3d.V3(l, 0, 0)
	b := math3d.V3(0, 0, 0)
	c := math3d.V3(l, 0, l)
	d := math3d.V3(0, 0, l)
	e := math3d.V3(l, l, 0)
	f := math3d.V3(0, l, 0)
	g := math3d.V3(l, l, l)
	h := math3d.V3(0, l, l)

	return []geometry.Triangle{
		// Floor
		tri(c, b, a, Green),
		tri(c, d, b, Green),
		// Left wall
		tri(a, e, c, Purple),
		tri(c, e, g, Purple),
		// Right wall
		tri(f, b, d, Yellow),
		tri(h, f, d, Yellow),
		// Ceiling
		tri(e, f, g, Cyan),
		tri(f, h, g, Cyan),
		// Back wall
		tri(g, d, c, White),
		tri(g, h, d, White),
	}
}

// cornellBlock extrudes the floor quad a, b, c, d up to height into a closed
// box of ten triangles (the bottom face is never visible).
func cornellBlock(color, a, b, c, d math3d.Vec3, height float64) []geometry.Triangle {
	up := math3d.V3(0, height, 0)
	e, f, g, h := a.Add(up), b.Add(up), c.Add(up), d.Add(up)

	return []geometry.Triangle{
		// Front
		tri(e, b, a, color),
		tri(e, f, b, color),
		// Right
		tri(f, d, b, color),
		tri(f, h, d, color),
		// Back
		tri(h, c, d, color),
		tri(h, g, c, color),
		// Left
		tri(g, e, c, color),
		tri(e, a, c, color),
		// Top
		tri(g, f, e, color),
		tri(g, h, f, color),
	}
}

// tri builds a triangle from box-space vertices, mapping them into [-1, 1]³
// with x and y negated.
func tri(v0, v1, v2, color math3d.Vec3) geometry.Triangle {
	return geometry.NewTriangle(toUnitBox(v0), toUnitBox(v1), toUnitBox(v2), color)
}

func toUnitBox(v math3d.Vec3) math3d.Vec3 {
	v = v.Scale(2 / cornellSide).Sub(math3d.Splat(1))
	return math3d.V3(-v.X, -v.Y, v.Z)
}
