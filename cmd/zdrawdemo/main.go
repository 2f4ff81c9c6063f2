// Command zdrawdemo demonstrates the zdraw deferred drawing surface.
package main

import (
	"flag"
	"log"
	"math"

	"github.com/gogpu/zdraw"
)

func main() {
	var (
		width  = flag.Int("width", 800, "image width")
		height = flag.Int("height", 600, "image height")
		output = flag.String("output", "demo.png", "output file")
	)
	flag.Parse()

	target := zdraw.NewBitmap(*width, *height)
	backend := zdraw.NewSoftwareBackend(target)
	g, err := zdraw.New(zdraw.FixedSize(*width, *height, false), backend)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}

	if err := g.Begin(zdraw.RGB(0.08, 0.10, 0.16)); err != nil {
		log.Fatalf("Begin: %v", err)
	}

	// Submission order is deliberately scrambled; the depth keys decide
	// what ends up on top.
	drawPinwheel(g, float64(*width)/2, float64(*height)/2, 30)
	drawBackgroundBands(g, *width, *height, 0)
	drawStamps(g, 20)
	drawFrame(g, *width, *height, 40)

	if err := g.End(); err != nil {
		log.Fatalf("End: %v", err)
	}

	if err := target.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// drawBackgroundBands fills the target with horizontal gradient bands.
func drawBackgroundBands(g *zdraw.Graphics, w, h int, z zdraw.ZPos) {
	steps := 100
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		top := zdraw.RGB(0.1+t*0.3, 0.15+t*0.25, 0.35+t*0.2)
		bot := zdraw.RGB(0.1+(t+0.01)*0.3, 0.15+(t+0.01)*0.25, 0.35+(t+0.01)*0.2)
		y0 := float64(h) * t
		y1 := y0 + float64(h)/float64(steps) + 1
		if err := g.DrawQuad(
			0, y0, top, float64(w), y0, top,
			float64(w), y1, bot, 0, y1, bot,
			z, zdraw.AlphaDefault,
		); err != nil {
			log.Fatalf("DrawQuad: %v", err)
		}
	}
}

// drawPinwheel draws rotated triangles around a center using the
// transform stack, blended additively.
func drawPinwheel(g *zdraw.Graphics, cx, cy float64, z zdraw.ZPos) {
	const blades = 12
	for i := 0; i < blades; i++ {
		angle := float64(i) * 360 / blades
		if err := g.PushTransform(zdraw.Rotate(angle, cx, cy)); err != nil {
			log.Fatalf("PushTransform: %v", err)
		}
		hue := float64(i) / blades
		c := zdraw.RGBA(0.4+0.6*hue, 0.3, 1-0.7*hue, 0.85)
		if err := g.DrawTriangle(
			cx, cy, zdraw.White,
			cx+180, cy-24, c,
			cx+180, cy+24, c,
			z, zdraw.AlphaAdditive,
		); err != nil {
			log.Fatalf("DrawTriangle: %v", err)
		}
		if err := g.PopTransform(); err != nil {
			log.Fatalf("PopTransform: %v", err)
		}
	}
}

// drawStamps records a small emblem once and replays it at several
// positions, scales and depths.
func drawStamps(g *zdraw.Graphics, z zdraw.ZPos) {
	if err := g.BeginRecording(); err != nil {
		log.Fatalf("BeginRecording: %v", err)
	}
	// A diamond with a darker outline, drawn around the origin.
	body := zdraw.RGBA(1, 0.8, 0.2, 0.9)
	if err := g.DrawQuad(
		0, -30, body, 30, 0, body,
		0, 30, body, -30, 0, body,
		0, zdraw.AlphaDefault,
	); err != nil {
		log.Fatalf("DrawQuad: %v", err)
	}
	edge := zdraw.RGB(0.4, 0.25, 0)
	pts := [][2]float64{{0, -30}, {30, 0}, {0, 30}, {-30, 0}, {0, -30}}
	for i := 0; i+1 < len(pts); i++ {
		if err := g.DrawLine(
			pts[i][0], pts[i][1], edge,
			pts[i+1][0], pts[i+1][1], edge,
			1, zdraw.AlphaDefault,
		); err != nil {
			log.Fatalf("DrawLine: %v", err)
		}
	}
	stamp, err := g.EndRecording(60, 60)
	if err != nil {
		log.Fatalf("EndRecording: %v", err)
	}

	for i := 0; i < 7; i++ {
		x := 90 + float64(i)*110
		y := 500 + 40*math.Sin(float64(i))
		scale := 0.6 + 0.1*float64(i%3)
		t := zdraw.Translate(x, y).Concat(zdraw.Scale(scale))
		if err := stamp.DrawTransformed(t, z+zdraw.ZPos(i)); err != nil {
			log.Fatalf("stamp replay: %v", err)
		}
	}
}

// drawFrame draws a border on top of everything else.
func drawFrame(g *zdraw.Graphics, w, h int, z zdraw.ZPos) {
	fw, fh := float64(w), float64(h)
	if err := g.BeginClipping(0, 0, fw, fh); err != nil {
		log.Fatalf("BeginClipping: %v", err)
	}
	c := zdraw.RGBA(1, 1, 1, 0.7)
	for _, seg := range [][4]float64{
		{8, 8, fw - 8, 8},
		{fw - 8, 8, fw - 8, fh - 8},
		{fw - 8, fh - 8, 8, fh - 8},
		{8, fh - 8, 8, 8},
	} {
		if err := g.DrawLine(seg[0], seg[1], c, seg[2], seg[3], c, z, zdraw.AlphaDefault); err != nil {
			log.Fatalf("DrawLine: %v", err)
		}
	}
	if err := g.EndClipping(); err != nil {
		log.Fatalf("EndClipping: %v", err)
	}
}
