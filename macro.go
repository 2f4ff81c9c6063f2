package zdraw

// Macro is the immutable, replayable drawing artifact sealed by
// EndRecording. Width and height are metadata chosen at seal time; they do
// not clip or scale the recorded content.
//
// Replay is not a flat blit: Draw re-emits the stored commands into the
// owning Graphics' active queue, each composed with the replay transform
// and offset by the replay depth, so the commands' relative depth and
// transform ordering is preserved and they interleave with the caller's
// own drawing by the usual rules.
type Macro struct {
	graphics *Graphics
	width    int
	height   int
	commands []drawCommand
}

var _ Drawable = (*Macro)(nil)

// Width returns the width given to EndRecording.
func (m *Macro) Width() int { return m.width }

// Height returns the height given to EndRecording.
func (m *Macro) Height() int { return m.height }

// Len returns the number of recorded commands.
func (m *Macro) Len() int { return len(m.commands) }

// Draw replays the macro translated by (x, y) at depth offset z.
func (m *Macro) Draw(x, y float64, z ZPos) error {
	return m.DrawTransformed(Translate(x, y), z)
}

// DrawTransformed replays the macro with an arbitrary transform and depth
// offset. The replay transform is nested inside the caller's current
// coordinate frame; each stored command keeps its own captured transform
// underneath. Stored clip rectangles are re-mapped by the replay transform
// and intersected with the caller's current clip.
func (m *Macro) DrawTransformed(t Transform, z ZPos) error {
	g := m.graphics
	if err := g.drawState(); err != nil {
		return err
	}
	replay := g.transforms.active().Concat(t)
	callerClip, callerClipped := g.clips.current()

	for i := range m.commands {
		cmd := m.commands[i]
		cmd.transform = replay.Concat(cmd.transform)
		cmd.z += z
		if cmd.clipped {
			cmd.clip = replay.ApplyRect(cmd.clip)
			if callerClipped {
				cmd.clip = cmd.clip.Intersect(callerClip)
			}
		} else {
			cmd.clip, cmd.clipped = callerClip, callerClipped
		}
		g.queue.enqueue(cmd)
	}
	return nil
}
