package globe

// syntheticEvent represents a single injected input event. Coordinates are
// render-surface pixels, identical to real mouse input.
type syntheticEvent struct {
	x, y      float64
	pressed   bool
	button    MouseButton
	pointerID int
	wheel     bool
	wheelX    float64
	wheelY    float64
	mods      KeyModifiers
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next frame's input pass.
func (s *Scene) InjectPress(x, y float64) {
	s.InjectButtonPress(x, y, MouseButtonLeft, 0)
}

// InjectButtonPress queues a press of button with the given modifiers held.
func (s *Scene) InjectButtonPress(x, y float64, button MouseButton, mods KeyModifiers) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		x: x, y: y, pressed: true, button: button, mods: mods,
	})
}

// InjectMove queues a pointer move with the button still held. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		x: x, y: y, pressed: true, button: s.lastInjectedButton(),
		mods: s.lastInjectedMods(),
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		x: x, y: y, pressed: false, button: s.lastInjectedButton(),
		mods: s.lastInjectedMods(),
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). Minimum frames is 2 (press + release).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectTouch queues a touch event for touch slot id (1-9). pressed false
// ends the touch.
func (s *Scene) InjectTouch(id int, x, y float64, pressed bool) {
	if id < 1 || id >= maxPointers {
		return
	}
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		x: x, y: y, pressed: pressed, pointerID: id,
	})
}

// InjectWheel queues a scroll wheel event.
func (s *Scene) InjectWheel(dx, dy float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		wheel: true, wheelX: dx, wheelY: dy,
	})
}

func (s *Scene) lastInjectedButton() MouseButton {
	for i := len(s.injectQueue) - 1; i >= 0; i-- {
		if e := s.injectQueue[i]; !e.wheel && e.pointerID == 0 {
			return e.button
		}
	}
	return s.pointers[0].button
}

func (s *Scene) lastInjectedMods() KeyModifiers {
	for i := len(s.injectQueue) - 1; i >= 0; i-- {
		if e := s.injectQueue[i]; !e.wheel && e.pointerID == 0 {
			return e.mods
		}
	}
	return 0
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the same state machine as real input. Returns true if an event was
// consumed (real input is skipped for that frame).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.wheel {
		p := &s.pointers[0]
		s.handlers.wheel.fire(WheelContext{
			X: p.lastX, Y: p.lastY,
			DeltaX: evt.wheelX, DeltaY: evt.wheelY,
		})
		return true
	}
	s.processPointer(evt.pointerID, evt.x, evt.y, evt.pressed, evt.button, evt.mods)
	return true
}
