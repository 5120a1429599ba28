package host

import (
	"sync"

	"github.com/epcltv/epcltv/adapter"
)

// WindowSurface is an existing native window the engine can render into.
type WindowSurface struct {
	handle        uintptr
	width, height int
}

// NewWindowSurface wraps the native window handle of the given size.
func NewWindowSurface(handle uintptr, width, height int) *WindowSurface {
	return &WindowSurface{handle: handle, width: width, height: height}
}

func (w *WindowSurface) Handle() uintptr           { return w.handle }
func (w *WindowSurface) Size() (width, height int) { return w.width, w.height }

// WindowSurfaceHost provides a window that already exists when the callback is
// registered, so registration immediately reports the surface as created.
type WindowSurfaceHost struct {
	mu      sync.Mutex
	surface *WindowSurface
	cb      adapter.SurfaceCallback
}

var _ adapter.SurfaceHost = (*WindowSurfaceHost)(nil)

// NewWindowSurfaceHost provides surface to the adapter it is attached to.
func NewWindowSurfaceHost(surface *WindowSurface) *WindowSurfaceHost {
	return &WindowSurfaceHost{surface: surface}
}

func (h *WindowSurfaceHost) SetSurfaceCallback(cb adapter.SurfaceCallback) {
	h.mu.Lock()
	h.cb = cb
	s := h.surface
	h.mu.Unlock()

	if cb != nil && s != nil {
		cb.SurfaceCreated(s)
	}
}

// Resize records the new window size and forwards it to the registered callback.
func (h *WindowSurfaceHost) Resize(width, height int) {
	h.mu.Lock()
	s, cb := h.surface, h.cb
	if s != nil {
		s.width, s.height = width, height
	}
	h.mu.Unlock()

	if cb != nil && s != nil {
		cb.SurfaceChanged(s, width, height)
	}
}

// Destroy reports the window as gone. Later registrations see no surface.
func (h *WindowSurfaceHost) Destroy() {
	h.mu.Lock()
	s, cb := h.surface, h.cb
	h.surface = nil
	h.mu.Unlock()

	if cb != nil && s != nil {
		cb.SurfaceDestroyed(s)
	}
}
