package adapter

// Callback receives the adapter's state-change notifications. Every method is a
// synchronous call; the adapter's accessors may be used from inside it.
type Callback interface {
	OnPreparedStateChanged(a *Adapter)
	OnPlayStateChanged(a *Adapter)
	OnBufferingStateChanged(a *Adapter, buffering bool)
	OnBufferedPositionChanged(a *Adapter)
	OnCurrentPositionChanged(a *Adapter)
	OnDurationChanged(a *Adapter)
	OnMetadataChanged(a *Adapter)
	OnPlayCompleted(a *Adapter)
	OnError(a *Adapter, code int, message string)
}

// NopCallback ignores every notification. Embed it to implement only a subset of Callback.
type NopCallback struct{}

func (NopCallback) OnPreparedStateChanged(*Adapter)        {}
func (NopCallback) OnPlayStateChanged(*Adapter)            {}
func (NopCallback) OnBufferingStateChanged(*Adapter, bool) {}
func (NopCallback) OnBufferedPositionChanged(*Adapter)     {}
func (NopCallback) OnCurrentPositionChanged(*Adapter)      {}
func (NopCallback) OnDurationChanged(*Adapter)             {}
func (NopCallback) OnMetadataChanged(*Adapter)             {}
func (NopCallback) OnPlayCompleted(*Adapter)               {}
func (NopCallback) OnError(*Adapter, int, string)          {}

// Multi fans notifications out to several callbacks, in order.
func Multi(callbacks ...Callback) Callback {
	return multi(callbacks)
}

type multi []Callback

func (m multi) OnPreparedStateChanged(a *Adapter) {
	for _, cb := range m {
		cb.OnPreparedStateChanged(a)
	}
}

func (m multi) OnPlayStateChanged(a *Adapter) {
	for _, cb := range m {
		cb.OnPlayStateChanged(a)
	}
}

func (m multi) OnBufferingStateChanged(a *Adapter, buffering bool) {
	for _, cb := range m {
		cb.OnBufferingStateChanged(a, buffering)
	}
}

func (m multi) OnBufferedPositionChanged(a *Adapter) {
	for _, cb := range m {
		cb.OnBufferedPositionChanged(a)
	}
}

func (m multi) OnCurrentPositionChanged(a *Adapter) {
	for _, cb := range m {
		cb.OnCurrentPositionChanged(a)
	}
}

func (m multi) OnDurationChanged(a *Adapter) {
	for _, cb := range m {
		cb.OnDurationChanged(a)
	}
}

func (m multi) OnMetadataChanged(a *Adapter) {
	for _, cb := range m {
		cb.OnMetadataChanged(a)
	}
}

func (m multi) OnPlayCompleted(a *Adapter) {
	for _, cb := range m {
		cb.OnPlayCompleted(a)
	}
}

func (m multi) OnError(a *Adapter, code int, message string) {
	for _, cb := range m {
		cb.OnError(a, code, message)
	}
}
