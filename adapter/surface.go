package adapter

// Surface is a native drawable target owned by the host.
type Surface interface {
	// Handle is the platform window or surface identifier passed to the engine.
	Handle() uintptr
	Size() (width, height int)
}

// SurfaceCallback receives the surface lifecycle from a SurfaceHost.
type SurfaceCallback interface {
	SurfaceCreated(s Surface)
	SurfaceChanged(s Surface, width, height int)
	SurfaceDestroyed(s Surface)
}

// SurfaceHost is implemented by hosts that own a renderable surface.
// Passing nil unregisters the current callback.
type SurfaceHost interface {
	SetSurfaceCallback(cb SurfaceCallback)
}

type surfaceCallback struct {
	a *Adapter
}

func (c surfaceCallback) SurfaceCreated(s Surface) {
	c.a.SetDisplaySurface(s)
}

// SurfaceChanged is accepted but the engine keeps the size it was bound with.
func (c surfaceCallback) SurfaceChanged(Surface, int, int) {}

func (c surfaceCallback) SurfaceDestroyed(Surface) {
	c.a.SetDisplaySurface(nil)
}
