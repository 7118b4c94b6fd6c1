// Package notify renders transient, auto-dismissing feedback banners.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Severity selects the banner styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const (
	defaultTTL       = 5 * time.Second
	defaultMaxActive = 8
)

// Banner is one visible notification.
type Banner struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Notifier is what controllers depend on.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Sink renders banners somewhere: a terminal, a test recorder.
type Sink interface {
	Render(banner Banner)
	Remove(bannerID string)
}

// Service owns banner lifecycle: render, auto-dismiss after the TTL,
// early dismissal, and a cap on concurrently visible banners (oldest
// evicted first).
type Service struct {
	mu        sync.Mutex
	sink      Sink
	ttl       time.Duration
	maxActive int
	active    []Banner
	timers    map[string]*time.Timer
	nowTime   func() time.Time
}

var _ Notifier = (*Service)(nil)

// Option modifies the Service.
type Option func(*Service)

// WithTTL overrides the 5s auto-dismiss timeout.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithMaxActive overrides the cap on concurrently visible banners.
func WithMaxActive(n int) Option {
	return func(s *Service) {
		s.maxActive = n
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(sink Sink, options ...Option) (*Service, error) {
	if sink == nil {
		return nil, errors.New("[NewService] sink is required")
	}
	s := &Service{
		sink:      sink,
		ttl:       defaultTTL,
		maxActive: defaultMaxActive,
		timers:    make(map[string]*time.Timer),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Notify renders a banner and schedules its dismissal. Multiple banners
// coexist; when the cap is hit the oldest goes first.
func (s *Service) Notify(message string, severity Severity) {
	banner := Banner{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  severity,
		CreatedAt: s.nowTime(),
	}

	var evicted []string
	s.mu.Lock()
	for len(s.active) >= s.maxActive {
		oldest := s.active[0]
		if s.removeLocked(oldest.ID) {
			evicted = append(evicted, oldest.ID)
		}
	}
	s.active = append(s.active, banner)
	s.timers[banner.ID] = time.AfterFunc(s.ttl, func() {
		s.Dismiss(banner.ID)
	})
	s.mu.Unlock()

	for _, id := range evicted {
		s.sink.Remove(id)
	}
	s.sink.Render(banner)
}

// Dismiss removes a banner before its TTL fires. Unknown IDs are a
// no-op so the auto-dismiss timer and an explicit close cannot race
// into a double removal.
func (s *Service) Dismiss(bannerID string) {
	s.mu.Lock()
	removed := s.removeLocked(bannerID)
	s.mu.Unlock()

	if removed {
		s.sink.Remove(bannerID)
	}
}

// Active returns the currently visible banners, oldest first.
func (s *Service) Active() []Banner {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Banner, len(s.active))
	copy(out, s.active)
	return out
}

func (s *Service) removeLocked(bannerID string) bool {
	if timer, ok := s.timers[bannerID]; ok {
		timer.Stop()
		delete(s.timers, bannerID)
	}
	for i, b := range s.active {
		if b.ID == bannerID {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return true
		}
	}
	return false
}
