package comparison

import (
	"context"
	"sync"
	"time"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/export"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// State is the session lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Session owns the lifecycle of one active comparison: asynchronous
// create/load with a stale-result guard, synchronous filtering and
// navigation over the immutable result, an auto-navigate timer, and export
// tracking.  All methods are safe for concurrent use; filtering and
// navigation never block.
type Session struct {
	svc      *Service
	exporter export.Service
	log      logging.Logger

	// autoInterval is the default advance interval for auto-navigation.
	autoInterval time.Duration

	mu          sync.Mutex
	state       State
	cmp         *domain.DocumentComparison
	lastErr     error
	filters     Filters
	view        View
	selected    int // index into view.Items, -1 when nothing is selected
	generation  uint64
	cancelLoad  context.CancelFunc
	stopAutoNav chan struct{}
	isExporting bool
}

// NewSession builds an idle session.
func NewSession(svc *Service, exporter export.Service, autoInterval time.Duration, log logging.Logger) *Session {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if autoInterval <= 0 {
		autoInterval = 3 * time.Second
	}
	return &Session{
		svc:          svc,
		exporter:     exporter,
		log:          log.Named("session"),
		autoInterval: autoInterval,
		state:        StateIdle,
		filters:      DefaultFilters(),
		selected:     -1,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error held in the Error state, nil otherwise.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateError {
		return nil
	}
	return s.lastErr
}

// Comparison returns the loaded aggregate in Ready, nil otherwise.  The
// returned value is read-only by contract.
func (s *Session) Comparison() *domain.DocumentComparison {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	return s.cmp
}

// Create computes a fresh comparison asynchronously.  It transitions to
// Loading immediately and returns a channel that receives the terminal state
// exactly once.  A Create or LoadByID issued while another is in flight
// cancels and supersedes it; the superseded result is discarded when it
// resolves.
func (s *Session) Create(ctx context.Context, doc1, doc2 common.ID, cfg domain.ComparisonConfig) <-chan State {
	return s.begin(ctx, func(loadCtx context.Context) (*domain.DocumentComparison, error) {
		return s.svc.Compare(loadCtx, doc1, doc2, cfg)
	})
}

// LoadByID loads a stored comparison asynchronously, with the same
// transition shape as Create.
func (s *Session) LoadByID(ctx context.Context, id common.ID) <-chan State {
	return s.begin(ctx, func(loadCtx context.Context) (*domain.DocumentComparison, error) {
		return s.svc.GetByID(loadCtx, id)
	})
}

func (s *Session) begin(ctx context.Context, load func(context.Context) (*domain.DocumentComparison, error)) <-chan State {
	loadCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.cancelLoad = cancel
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.lastErr = nil
	s.stopAutoNavLocked()
	s.mu.Unlock()

	done := make(chan State, 1)
	go func() {
		cmp, err := load(loadCtx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			// A newer Create/LoadByID superseded this one; its result must
			// never become observable.
			s.log.Debug("discarding stale comparison result",
				logging.String("code", string(errors.ErrCodeStaleResultDiscarded)))
			done <- s.state
			return
		}
		if err != nil {
			s.state = StateError
			s.lastErr = err
			s.cmp = nil
			s.view = View{}
			s.selected = -1
			done <- StateError
			return
		}
		s.state = StateReady
		s.cmp = cmp
		s.view = ApplyFilters(cmp, s.filters)
		s.selected = -1
		done <- StateReady
	}()
	return done
}

// CanRetry reports whether the session sits in Error with a retryable
// cause.  Retrying means re-invoking Create/LoadByID with the same inputs.
func (s *Session) CanRetry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateError && errors.IsRetryable(s.lastErr)
}

// ApplyFilters recomputes the visible view.  Pure over the immutable
// aggregate: the same filters always yield the same view and selection.  The
// previous selection is preserved when the selected item remains visible,
// otherwise cleared.  Cancels auto-navigation.  Never fails: outside Ready
// it degrades to an empty view.
func (s *Session) ApplyFilters(f Filters) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoNavLocked()

	s.filters = f
	if s.state != StateReady {
		s.view = View{}
		s.selected = -1
		return s.view
	}

	var selectedID string
	if s.selected >= 0 && s.selected < len(s.view.Items) {
		selectedID = s.view.Items[s.selected].ID()
	}

	s.view = ApplyFilters(s.cmp, f)

	s.selected = -1
	if selectedID != "" {
		for i, it := range s.view.Items {
			if it.ID() == selectedID {
				s.selected = i
				break
			}
		}
	}
	return s.view
}

// View returns the current filtered view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Select sets the active selection to the item at index in the filtered
// list, clamping out-of-range values.  Cancels auto-navigation.  Outside
// Ready, or with an empty list, the selection stays cleared.
func (s *Session) Select(index int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoNavLocked()
	return s.selectLocked(index)
}

// Navigate moves the selection by delta within the filtered list, clamping
// at both ends.  A nothing-selected state treats delta > 0 as "select
// first".  Cancels auto-navigation.
func (s *Session) Navigate(delta int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoNavLocked()
	return s.navigateLocked(delta)
}

func (s *Session) selectLocked(index int) (Item, bool) {
	if s.state != StateReady || len(s.view.Items) == 0 {
		s.selected = -1
		return Item{}, false
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.view.Items)-1 {
		index = len(s.view.Items) - 1
	}
	s.selected = index
	return s.view.Items[index], true
}

func (s *Session) navigateLocked(delta int) (Item, bool) {
	if s.state != StateReady || len(s.view.Items) == 0 {
		return Item{}, false
	}
	if s.selected < 0 {
		if delta >= 0 {
			return s.selectLocked(0)
		}
		return s.selectLocked(len(s.view.Items) - 1)
	}
	return s.selectLocked(s.selected + delta)
}

// Selection returns the active item and its index, or ok=false when nothing
// is selected.
func (s *Session) Selection() (Item, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.view.Items) {
		return Item{}, -1, false
	}
	return s.view.Items[s.selected], s.selected, true
}

// SetAutoNavigate starts or stops timed selection advance.  The timer is
// owned exclusively by this session; it auto-disables after advancing onto
// the last item, and any manual Select/Navigate/ApplyFilters cancels it.
func (s *Session) SetAutoNavigate(enabled bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoNavLocked()
	if !enabled || s.state != StateReady || len(s.view.Items) == 0 {
		return
	}
	if interval <= 0 {
		interval = s.autoInterval
	}

	stop := make(chan struct{})
	s.stopAutoNav = stop
	go s.autoNavLoop(interval, stop)
}

func (s *Session) autoNavLoop(interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.stopAutoNav != stop || s.state != StateReady {
				s.mu.Unlock()
				return
			}
			atEnd := s.selected >= len(s.view.Items)-1
			if atEnd {
				// Reached the end: auto-navigation disables itself.
				s.stopAutoNav = nil
				s.mu.Unlock()
				return
			}
			s.navigateLocked(1)
			s.mu.Unlock()
		}
	}
}

// stopAutoNavLocked cancels a running auto-navigate timer.  Caller holds mu.
func (s *Session) stopAutoNavLocked() {
	if s.stopAutoNav != nil {
		close(s.stopAutoNav)
		s.stopAutoNav = nil
	}
}

// AutoNavigating reports whether the auto-navigate timer is active.
func (s *Session) AutoNavigating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopAutoNav != nil
}

// RequestExport delegates to the export service, tracking an in-progress
// flag.  Concurrent export requests for the same session are rejected; an
// export failure never invalidates the underlying comparison.
func (s *Session) RequestExport(ctx context.Context, format export.Format, opts export.Options) (*export.Result, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, errors.InvalidState("no comparison is loaded")
	}
	if s.isExporting {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeExportInProgress, "an export is already running")
	}
	if s.exporter == nil {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "export service is not configured")
	}
	s.isExporting = true
	cmp := s.cmp
	s.mu.Unlock()

	res, err := s.exporter.Export(ctx, cmp, format, opts)

	s.mu.Lock()
	s.isExporting = false
	s.mu.Unlock()
	return res, err
}

// Exporting reports whether an export is in flight.
func (s *Session) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isExporting
}

// Close cancels any in-flight load and the auto-navigate timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.stopAutoNavLocked()
	s.generation++
	s.state = StateIdle
	s.cmp = nil
	s.view = View{}
	s.selected = -1
}
