package zdraw

import (
	"math"
	"testing"
)

func lineAt(x float64, z ZPos) drawCommand {
	return drawCommand{
		kind: kindLine,
		verts: [4]Vertex{
			{X: x, Y: 0, Color: White},
			{X: x + 1, Y: 0, Color: White},
		},
		vertCount: 2,
		transform: Identity(),
		z:         z,
	}
}

func TestQueueOrdered(t *testing.T) {
	q := newDrawQueue()
	q.enqueue(lineAt(3, 2))
	q.enqueue(lineAt(1, -1))
	q.enqueue(lineAt(2, 0.5))
	q.enqueue(lineAt(4, 2)) // same depth as the first, FIFO after it

	cmds := q.ordered()
	if len(cmds) != 4 {
		t.Fatalf("ordered returned %d commands, want 4", len(cmds))
	}
	wantX := []float64{1, 2, 3, 4}
	for i, want := range wantX {
		if got := cmds[i].verts[0].X; got != want {
			t.Errorf("command %d at x=%g, want %g", i, got, want)
		}
	}
}

func TestQueueNegativeAndFractionalDepths(t *testing.T) {
	q := newDrawQueue()
	depths := []ZPos{0, -100, 0.25, math.MaxFloat64, -0.25}
	for _, z := range depths {
		q.enqueue(lineAt(float64(z), z))
	}
	cmds := q.ordered()
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1].z > cmds[i].z {
			t.Fatalf("commands out of depth order: z[%d]=%g > z[%d]=%g",
				i-1, float64(cmds[i-1].z), i, float64(cmds[i].z))
		}
	}
}

func TestQueueReset(t *testing.T) {
	q := newDrawQueue()
	q.enqueue(lineAt(0, 0))
	q.enqueue(lineAt(1, 1))
	if q.len() != 2 {
		t.Fatalf("len = %d, want 2", q.len())
	}
	q.reset()
	if q.len() != 0 {
		t.Errorf("len after reset = %d, want 0", q.len())
	}
	if got := q.ordered(); len(got) != 0 {
		t.Errorf("ordered after reset returned %d commands", len(got))
	}
}

func TestQueueDrainEmpties(t *testing.T) {
	q := newDrawQueue()
	spy := &spyBackend{}
	q.enqueue(lineAt(0, 0))
	if err := q.drain(spy); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if q.len() != 0 {
		t.Errorf("queue not empty after drain: %d", q.len())
	}
	if len(spy.submissions()) != 1 {
		t.Errorf("submissions = %d, want 1", len(spy.submissions()))
	}
}

func TestQueueDrainSkipsEmptyClip(t *testing.T) {
	q := newDrawQueue()
	spy := &spyBackend{}

	clipped := lineAt(0, 0)
	clipped.clipped = true
	clipped.clip = Rect{} // empty
	q.enqueue(clipped)
	q.enqueue(lineAt(1, 1))

	if err := q.drain(spy); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if got := len(spy.submissions()); got != 1 {
		t.Errorf("submissions = %d, want 1 (empty-clip command leaked)", got)
	}
}

func TestQueueDrainAppliesCapturedTransform(t *testing.T) {
	q := newDrawQueue()
	spy := &spyBackend{}

	cmd := lineAt(10, 0)
	cmd.transform = Translate(0, 7)
	q.enqueue(cmd)

	if err := q.drain(spy); err != nil {
		t.Fatalf("drain: %v", err)
	}
	v := spy.submissions()[0].verts[0]
	if v.X != 10 || v.Y != 7 {
		t.Errorf("vertex = (%g, %g), want (10, 7)", v.X, v.Y)
	}
}
