package shell

// Injected pointer events use screen coordinates, the same space as the
// real mouse and as screenshots, and go through the camera exactly like
// real input. Each event is consumed by one frame.

// InjectPress queues a left-button press at the given screen coordinates.
func (g *Game) InjectPress(x, y float64) {
	g.injectQueue = append(g.injectQueue, pointerSample{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectMove queues a pointer move with the left button held. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (g *Game) InjectMove(x, y float64) {
	g.injectQueue = append(g.injectQueue, pointerSample{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (g *Game) InjectRelease(x, y float64) {
	g.injectQueue = append(g.injectQueue, pointerSample{x: x, y: y, button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (g *Game) InjectClick(x, y float64) {
	g.InjectPress(x, y)
	g.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). The sequence consumes frames frames; the
// minimum is 2.
func (g *Game) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	g.InjectRelease(toX, toY)
}

// processInjectedInput feeds one queued event through processPointer.
// It reports whether an event was consumed, in which case the real mouse
// is ignored for the frame.
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]
	g.processPointer(evt)
	return true
}
