package zdraw

import (
	"fmt"
	"sort"
)

// drawQueue collects draw commands during a frame (or a recording) and
// drains them in depth order. Entries are totally ordered first by ZPos
// ascending, then by submission order for equal ZPos.
//
// The queue is depth-bucketed: each distinct ZPos owns a FIFO slice, so
// enqueue is O(1) amortized and drain sorts only the distinct depths,
// which repeat heavily from frame to frame in typical layered drawing.
//
// The queue is not safe for concurrent use and must not be mutated while
// a drain is in progress.
type drawQueue struct {
	buckets map[ZPos][]drawCommand
	depths  []ZPos
	size    int

	// draining guards against drawing calls issued from inside a
	// scheduled native callback.
	draining bool
}

func newDrawQueue() *drawQueue {
	return &drawQueue{
		buckets: make(map[ZPos][]drawCommand),
	}
}

// enqueue appends a command to its depth bucket.
func (q *drawQueue) enqueue(cmd drawCommand) {
	bucket, ok := q.buckets[cmd.z]
	if !ok {
		q.depths = append(q.depths, cmd.z)
	}
	q.buckets[cmd.z] = append(bucket, cmd)
	q.size++
}

// len returns the number of queued commands.
func (q *drawQueue) len() int {
	return q.size
}

// reset discards all queued commands.
func (q *drawQueue) reset() {
	clear(q.buckets)
	q.depths = q.depths[:0]
	q.size = 0
}

// ordered returns all queued commands in (depth, FIFO) order without
// consuming them. Used by drain and by macro sealing.
func (q *drawQueue) ordered() []drawCommand {
	sort.Slice(q.depths, func(i, j int) bool { return q.depths[i] < q.depths[j] })
	out := make([]drawCommand, 0, q.size)
	for _, z := range q.depths {
		out = append(out, q.buckets[z]...)
	}
	return out
}

// drain submits all queued commands to the backend in depth order and
// empties the queue. Commands whose captured clip rectangle is empty are
// suppressed and produce no backend submission. Scheduled native callbacks
// run under the backend's scoped native-context access; the draining flag
// is held across the whole loop so drawing calls from inside a callback
// fail instead of corrupting the queue.
//
// Consumption is destructive: on error the remaining commands are
// discarded with the rest of the frame.
func (q *drawQueue) drain(b RenderBackend) error {
	cmds := q.ordered()
	q.reset()

	q.draining = true
	defer func() { q.draining = false }()

	Logger().Debug("zdraw: draining queue", "commands", len(cmds))

	for i := range cmds {
		cmd := &cmds[i]
		if cmd.clipped && cmd.clip.IsEmpty() {
			continue
		}
		var clip *Rect
		if cmd.clipped {
			clip = &cmd.clip
		}
		var err error
		switch cmd.kind {
		case kindLine, kindTriangle, kindQuad:
			err = b.SubmitPrimitive(cmd.transformedVerts(Identity()), cmd.mode, clip)
		case kindImage:
			var quad [4]Vertex
			copy(quad[:], cmd.transformedVerts(Identity()))
			err = b.SubmitTexturedQuad(cmd.tex, quad, cmd.mode, clip)
		case kindNative:
			err = b.WithNativeContext(cmd.native)
		}
		if err != nil {
			return fmt.Errorf("zdraw: drain %s at z=%g: %w", cmd.kind, float64(cmd.z), err)
		}
	}
	return nil
}
