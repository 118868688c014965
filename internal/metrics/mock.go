package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	gamesCreated     int
	eventsRecorded   int
	gamesCompleted   int
	eventDurations   []float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		eventDurations: make([]float64, 0),
	}
}

func (m *Mock) IncGamesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesCreated++
}

func (m *Mock) IncEventsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsRecorded++
}

func (m *Mock) IncGamesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesCompleted++
}

func (m *Mock) ObserveEventDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventDurations = append(m.eventDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// GamesCreated returns the number of times IncGamesCreated was called.
func (m *Mock) GamesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesCreated
}

// EventsRecorded returns the number of times IncEventsRecorded was called.
func (m *Mock) EventsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsRecorded
}

// GamesCompleted returns the number of times IncGamesCompleted was called.
func (m *Mock) GamesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesCompleted
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
