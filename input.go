package globe

import (
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 0.0 // pixels; orbiting starts on the first move
)

// --- Callback contexts ---

// PointerContext carries pointer event data. Coordinates are render-surface
// pixels.
type PointerContext struct {
	X, Y      float64
	Button    MouseButton
	PointerID int
	Touch     bool
	Modifiers KeyModifiers
}

// DragContext carries drag event data. DeltaX/DeltaY is the movement since the
// previous drag event (since the press for EventDragStart).
type DragContext struct {
	X, Y           float64
	StartX, StartY float64
	DeltaX, DeltaY float64
	Button         MouseButton
	PointerID      int
	Touch          bool
	Modifiers      KeyModifiers
}

// PinchContext carries two-finger gesture data.
type PinchContext struct {
	CenterX, CenterY           float64
	CenterDeltaX, CenterDeltaY float64
	Scale, ScaleDelta          float64
}

// WheelContext carries scroll wheel data. Positive DeltaY means the wheel
// moved up (away from the user).
type WheelContext struct {
	X, Y           float64
	DeltaX, DeltaY float64
	Modifiers      KeyModifiers
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	pinched  bool        // took part in a pinch since the press
	button   MouseButton // button captured at press time
}

// --- Pinch state ---

type pinchState struct {
	active      bool
	initialDist float64
	prevDist    float64
	prevCX      float64
	prevCY      float64
}

// --- Handler registry ---

type handler[C any] struct {
	id uint32
	fn func(C)
}

type handlerList[C any] []handler[C]

func (l handlerList[C]) remove(id uint32) handlerList[C] {
	for i := range l {
		if l[i].id == id {
			copy(l[i:], l[i+1:])
			l[len(l)-1] = handler[C]{}
			return l[:len(l)-1]
		}
	}
	return l
}

// fire calls every handler registered at the time of the call. Handlers may
// remove themselves (or others) while the list is being dispatched.
func (l handlerList[C]) fire(ctx C) {
	if len(l) == 0 {
		return
	}
	for _, h := range slices.Clone(l) {
		h.fn(ctx)
	}
}

type handlerRegistry struct {
	pointerDown handlerList[PointerContext]
	pointerUp   handlerList[PointerContext]
	pointerMove handlerList[PointerContext]
	click       handlerList[PointerContext]
	dragStart   handlerList[DragContext]
	drag        handlerList[DragContext]
	dragEnd     handlerList[DragContext]
	pinch       handlerList[PinchContext]
	wheel       handlerList[WheelContext]
	nextID      uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing an
// already-removed callback is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	r := h.reg
	switch h.event {
	case EventPointerDown:
		r.pointerDown = r.pointerDown.remove(h.id)
	case EventPointerUp:
		r.pointerUp = r.pointerUp.remove(h.id)
	case EventPointerMove:
		r.pointerMove = r.pointerMove.remove(h.id)
	case EventClick:
		r.click = r.click.remove(h.id)
	case EventDragStart:
		r.dragStart = r.dragStart.remove(h.id)
	case EventDrag:
		r.drag = r.drag.remove(h.id)
	case EventDragEnd:
		r.dragEnd = r.dragEnd.remove(h.id)
	case EventPinch:
		r.pinch = r.pinch.remove(h.id)
	case EventWheel:
		r.wheel = r.wheel.remove(h.id)
	}
}

func (r *handlerRegistry) handle(event EventType) CallbackHandle {
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

// --- Scene-level event registration ---

// OnPointerDown registers a callback for pointer presses and touch starts.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.pointerDown = append(s.handlers.pointerDown, handler[PointerContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventPointerDown)
}

// OnPointerUp registers a callback for pointer releases and touch ends.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.pointerUp = append(s.handlers.pointerUp, handler[PointerContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventPointerUp)
}

// OnPointerMove registers a callback for hover movement (no button held).
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.pointerMove = append(s.handlers.pointerMove, handler[PointerContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventPointerMove)
}

// OnClick registers a callback for press-then-release without a drag.
func (s *Scene) OnClick(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.click = append(s.handlers.click, handler[PointerContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventClick)
}

// OnDragStart registers a callback for drag start events.
func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.dragStart = append(s.handlers.dragStart, handler[DragContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventDragStart)
}

// OnDrag registers a callback for drag events.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.drag = append(s.handlers.drag, handler[DragContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventDrag)
}

// OnDragEnd registers a callback for drag end events.
func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.dragEnd = append(s.handlers.dragEnd, handler[DragContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventDragEnd)
}

// OnPinch registers a callback for two-finger pinch events.
func (s *Scene) OnPinch(fn func(PinchContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.pinch = append(s.handlers.pinch, handler[PinchContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventPinch)
}

// OnWheel registers a callback for scroll wheel events.
func (s *Scene) OnWheel(fn func(WheelContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.wheel = append(s.handlers.wheel, handler[WheelContext]{s.handlers.nextID, fn})
	return s.handlers.handle(EventWheel)
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Scene.Update to handle all mouse, touch and
// wheel input. Injected events, when queued, replace real input for the frame.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		s.detectPinch()
		return
	}
	mods := readModifiers()
	s.processMousePointer(mods)
	s.processTouchPointers(mods)
	s.detectPinch()
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		mx, my := ebiten.CursorPosition()
		s.handlers.wheel.fire(WheelContext{
			X: float64(mx), Y: float64(my),
			DeltaX: wx, DeltaY: wy,
			Modifiers: mods,
		})
	}
}

// processMousePointer handles mouse input (pointer 0).
func (s *Scene) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	// If the pointer is already down, processPointer keeps the stored button.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case right:
			button = MouseButtonRight
		default:
			button = MouseButtonMiddle
		}
	}
	s.processPointer(0, float64(mx), float64(my), pressed, button, mods)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft, mods)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft, mods)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer.
func (s *Scene) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointers[pointerID]
	touch := pointerID > 0

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		ps.pinched = false
		s.handlers.pointerDown.fire(PointerContext{
			X: x, Y: y, Button: button, PointerID: pointerID, Touch: touch, Modifiers: mods,
		})

	case !pressed && ps.down:
		if ps.dragging {
			s.handlers.dragEnd.fire(DragContext{
				X: x, Y: y, StartX: ps.startX, StartY: ps.startY,
				DeltaX: x - ps.lastX, DeltaY: y - ps.lastY,
				Button: ps.button, PointerID: pointerID, Touch: touch, Modifiers: mods,
			})
		} else if !ps.pinched {
			s.handlers.click.fire(PointerContext{
				X: x, Y: y, Button: ps.button, PointerID: pointerID, Touch: touch, Modifiers: mods,
			})
		}
		s.handlers.pointerUp.fire(PointerContext{
			X: x, Y: y, Button: ps.button, PointerID: pointerID, Touch: touch, Modifiers: mods,
		})
		ps.down = false
		ps.dragging = false

	case pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging && !ps.pinched {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					s.handlers.dragStart.fire(DragContext{
						X: x, Y: y, StartX: ps.startX, StartY: ps.startY,
						DeltaX: dx, DeltaY: dy,
						Button: ps.button, PointerID: pointerID, Touch: touch, Modifiers: mods,
					})
					// The press-to-here movement was reported by DragStart.
					ps.lastX, ps.lastY = x, y
				}
			}
			if ps.dragging && (x != ps.lastX || y != ps.lastY) {
				s.handlers.drag.fire(DragContext{
					X: x, Y: y, StartX: ps.startX, StartY: ps.startY,
					DeltaX: x - ps.lastX, DeltaY: y - ps.lastY,
					Button: ps.button, PointerID: pointerID, Touch: touch, Modifiers: mods,
				})
			}
		}
		ps.lastX, ps.lastY = x, y

	default:
		if x != ps.lastX || y != ps.lastY {
			s.handlers.pointerMove.fire(PointerContext{
				X: x, Y: y, Button: button, PointerID: pointerID, Touch: touch, Modifiers: mods,
			})
			ps.lastX, ps.lastY = x, y
		}
	}
}

// --- Pinch detection ---

// detectPinch turns two simultaneous touches into pinch events. While a pinch
// is active, drags are suppressed for every touch pointer.
func (s *Scene) detectPinch() {
	var p [2]int
	count := 0
	for i := 1; i < maxPointers; i++ {
		if s.pointers[i].down {
			if count < 2 {
				p[count] = i
			}
			count++
		}
	}

	if count != 2 {
		s.pinch.active = false
		return
	}

	ps0 := &s.pointers[p[0]]
	ps1 := &s.pointers[p[1]]
	cx := (ps0.lastX + ps1.lastX) / 2
	cy := (ps0.lastY + ps1.lastY) / 2
	dist := math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY)

	if !s.pinch.active {
		s.pinch = pinchState{
			active:      true,
			initialDist: dist,
			prevDist:    dist,
			prevCX:      cx,
			prevCY:      cy,
		}
		ps0.dragging, ps0.pinched = false, true
		ps1.dragging, ps1.pinched = false, true
		return
	}

	if dist == s.pinch.prevDist && cx == s.pinch.prevCX && cy == s.pinch.prevCY {
		return
	}
	// Coincident fingers have no scale; wait for them to separate.
	if dist <= 0 {
		return
	}
	scale := 1.0
	if s.pinch.initialDist > 0 {
		scale = dist / s.pinch.initialDist
	}
	scaleDelta := 0.0
	if s.pinch.prevDist > 0 {
		scaleDelta = dist/s.pinch.prevDist - 1
	}
	s.handlers.pinch.fire(PinchContext{
		CenterX: cx, CenterY: cy,
		CenterDeltaX: cx - s.pinch.prevCX, CenterDeltaY: cy - s.pinch.prevCY,
		Scale: scale, ScaleDelta: scaleDelta,
	})
	s.pinch.prevDist = dist
	s.pinch.prevCX = cx
	s.pinch.prevCY = cy
	ps0.dragging = false
	ps1.dragging = false
}
