package httprgb

import (
	"httprgb/colormath"
	"sync"
)

// State caches the brightness and saturation last set on, or read from, the
// device. The device only accepts both together in one colour frame, so the
// cached pair is what every frame is built from.
type State struct {
	mu         sync.Mutex
	brightness int
	saturation int
}

func newState(hasBrightness bool) *State {
	state := &State{brightness: 100}
	if hasBrightness {
		state.brightness = 0
	}
	return state
}

func (s *State) SetBrightness(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = colormath.ClampPercent(level)
}

func (s *State) SetSaturation(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saturation = colormath.ClampPercent(level)
}

func (s *State) Brightness() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

func (s *State) Saturation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saturation
}

// Snapshot reads both values under one lock so a frame never mixes halves of
// two concurrent updates.
func (s *State) Snapshot() (brightness, saturation int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness, s.saturation
}
