package player

import (
	"sync"
	"time"
)

// Mock is a test double for the media primitive. Play can be gated to
// simulate a slow media load: with GateLoads enabled each Play blocks until
// ReleaseLoad is called, which lets tests interleave a second track switch
// while the first load is still in flight.
type Mock struct {
	mu         sync.Mutex
	state      State
	position   time.Duration
	duration   time.Duration
	volume     int
	playCalls  []string
	seekCalls  []time.Duration
	loaded     string
	playErr    error
	onFinished func()
	gate       chan struct{}
}

// NewMock creates a stopped mock player.
func NewMock() *Mock {
	return &Mock{state: Stopped, volume: 100}
}

func (m *Mock) Play(src string) error {
	m.mu.Lock()
	m.playCalls = append(m.playCalls, src)
	gate := m.gate
	err := m.playErr
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.state = Playing
	m.position = 0
	m.loaded = src
	m.mu.Unlock()
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Stopped
	m.position = 0
	m.loaded = ""
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) SeekTo(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) SetVolume(percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = percent
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) OnFinished(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinished = fn
}

func (m *Mock) Close() error {
	m.Stop()
	return nil
}

// Test helpers.

// GateLoads makes subsequent Play calls block until ReleaseLoad.
func (m *Mock) GateLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
}

// ReleaseLoad unblocks one gated Play call.
func (m *Mock) ReleaseLoad() {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		gate <- struct{}{}
	}
}

// UngateLoads removes the gate so Play returns immediately again.
func (m *Mock) UngateLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = nil
}

// SimulateFinished fires the registered natural-end callback.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	fn := m.onFinished
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

// LoadedSrc reports the source of the last Play that completed successfully,
// or "" after a Stop.
func (m *Mock) LoadedSrc() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *Mock) PlayCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.playCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
