package console

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/Qendolin/proxy-log-console/pkg/logging"
	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// DefaultPollInterval is the snapshot refresh cadence while the console is
// visible.
const DefaultPollInterval = 2000 * time.Millisecond

// diagCategory tags the controller's own diagnostics.
const diagCategory = "console"

// State is the controller's lifecycle state.
type State int

const (
	// StateHidden means the console is not visible and no polling runs.
	StateHidden State = iota
	// StateLoading means the console just became visible and the first
	// fetch has not completed yet.
	StateLoading
	// StatePolling means the first fetch completed (success or failure) and
	// the interval timer is running. There is no error state; failures keep
	// the last good snapshot.
	StatePolling
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateHidden:
		return "Hidden"
	case StateLoading:
		return "Loading"
	case StatePolling:
		return "Polling"
	default:
		return "Unknown"
	}
}

// Row pairs a visible entry with its stable identity and expansion state.
type Row struct {
	logstore.Entry
	Key      uint64
	Expanded bool
}

// View is an immutable rendering snapshot handed to the update observer.
// It carries everything the presentation layer needs; the observer must not
// call back into the controller while handling it.
type View struct {
	State      State
	Rows       []Row
	Categories []string
	Criteria   Criteria
	AutoScroll bool
	// ScrollToEnd is set when auto-scroll is on and this update changed the
	// composition of the visible list.
	ScrollToEnd bool
	// Total is the full snapshot length, before filtering.
	Total      int
	WarnCount  int
	ErrorCount int
}

// Controller owns the console lifecycle: it polls the injected store while
// visible, holds the snapshot and filter criteria, and wires user actions to
// the filter engine, expansion state and formatter. All mutations are
// serialized by an internal mutex; the store is the only injected
// collaborator.
type Controller struct {
	store    logstore.Store
	log      *logging.Logger
	interval time.Duration

	mu         sync.Mutex
	state      State
	gen        uint64 // visibility generation; bumped on Show and Hide
	fetching   bool   // single-flight guard for fetches
	pollCtx    context.Context
	cancelPoll context.CancelFunc
	snapshot   []logstore.Entry
	criteria   Criteria
	expanded   *ExpansionSet
	autoScroll bool
	visibleSig uint64
	onUpdate   func(View)
}

// NewController creates a controller over the given store. logger may be nil
// to use the default diagnostic logger; interval <= 0 selects
// DefaultPollInterval.
func NewController(store logstore.Store, logger *logging.Logger, interval time.Duration) *Controller {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Controller{
		store:      store,
		log:        logger,
		interval:   interval,
		criteria:   DefaultCriteria(),
		expanded:   NewExpansionSet(),
		autoScroll: true,
	}
}

// SetOnUpdate registers the observer notified after every reaction that may
// change the view. Must be set before Show.
func (c *Controller) SetOnUpdate(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show transitions Hidden -> Loading and starts the fetch-and-poll cycle:
// one immediate fetch, then one per interval until Hide.
func (c *Controller) Show() {
	c.mu.Lock()
	if c.state != StateHidden {
		c.mu.Unlock()
		return
	}
	c.state = StateLoading
	c.gen++
	c.fetching = false
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCtx, c.cancelPoll = ctx, cancel
	view, cb := c.buildViewLocked(), c.onUpdate
	c.mu.Unlock()

	c.log.Debugf(diagCategory, "console shown, polling every %s", c.interval)
	if cb != nil {
		cb(view)
	}
	go c.pollLoop(ctx, gen)
}

// Hide transitions to Hidden and cancels the poll timer. The cancellation is
// deterministic: after Hide returns, no further fetch fires, and a fetch
// already in flight has its result discarded.
func (c *Controller) Hide() {
	c.mu.Lock()
	if c.state == StateHidden {
		c.mu.Unlock()
		return
	}
	c.state = StateHidden
	c.gen++ // invalidates any in-flight fetch
	c.fetching = false
	cancel := c.cancelPoll
	c.pollCtx, c.cancelPoll = nil, nil
	view, cb := c.buildViewLocked(), c.onUpdate
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.log.Debugf(diagCategory, "console hidden, polling stopped")
	if cb != nil {
		cb(view)
	}
}

func (c *Controller) pollLoop(ctx context.Context, gen uint64) {
	c.fetch(ctx, gen)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.fetch(ctx, gen)
		}
	}
}

// fetch retrieves a snapshot and applies it if the console is still in the
// same visibility generation. A fetch is skipped while another is
// outstanding, so slow stores never cause overlapping retrievals.
func (c *Controller) fetch(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.fetching {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.mu.Unlock()

	entries, err := c.store.GetLogs(ctx)

	c.mu.Lock()
	if c.gen != gen {
		// Hidden (or re-shown) while in flight; the result is stale.
		c.mu.Unlock()
		c.log.Debugf(diagCategory, "discarding stale fetch result")
		return
	}
	c.fetching = false
	if c.state == StateLoading {
		c.state = StatePolling
	}
	if err == nil {
		c.snapshot = entries
	}
	view, cb := c.buildViewLocked(), c.onUpdate
	c.mu.Unlock()

	if err != nil {
		c.log.Warnf(diagCategory, "fetch failed, keeping last snapshot: %v", err)
	}
	if cb != nil {
		cb(view)
	}
}

// Refresh triggers a manual fetch outside the interval cadence. It shares
// the single-flight guard with the poller and is a no-op while hidden.
func (c *Controller) Refresh() {
	c.mu.Lock()
	if c.state == StateHidden || c.pollCtx == nil {
		c.mu.Unlock()
		return
	}
	ctx, gen := c.pollCtx, c.gen
	c.mu.Unlock()
	go c.fetch(ctx, gen)
}

// Clear asks the store to discard all records. On success the local snapshot
// empties immediately, before any poll confirms it; on failure it is left
// unchanged. The error is returned for callers that want to surface it, but
// it is never fatal.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.store.ClearLogs(ctx); err != nil {
		c.log.Warnf(diagCategory, "clear failed, snapshot unchanged: %v", err)
		return err
	}

	c.mu.Lock()
	c.snapshot = nil
	c.expanded.Clear()
	view, cb := c.buildViewLocked(), c.onUpdate
	c.mu.Unlock()

	c.log.Infof(diagCategory, "log store cleared")
	if cb != nil {
		cb(view)
	}
	return nil
}

// SetSearch updates the free-text search term.
func (c *Controller) SetSearch(text string) {
	c.updateCriteria(func(cr *Criteria) { cr.Search = text })
}

// SetLevel updates the level filter; FilterAll disables it.
func (c *Controller) SetLevel(level string) {
	c.updateCriteria(func(cr *Criteria) { cr.Level = level })
}

// SetCategory updates the category filter; FilterAll disables it.
func (c *Controller) SetCategory(category string) {
	c.updateCriteria(func(cr *Criteria) { cr.Category = category })
}

// Criteria returns the active filter criteria.
func (c *Controller) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

func (c *Controller) updateCriteria(apply func(*Criteria)) {
	c.mu.Lock()
	apply(&c.criteria)
	view, cb := c.buildViewLocked(), c.onUpdate
	c.mu.Unlock()
	if cb != nil {
		cb(view)
	}
}

// ToggleExpand flips the payload expansion for the entry identified by key
// and returns the new state.
func (c *Controller) ToggleExpand(key uint64) bool {
	c.mu.Lock()
	expanded := c.expanded.Toggle(key)
	view, cb := c.buildViewLocked(), c.onUpdate
	c.mu.Unlock()
	if cb != nil {
		cb(view)
	}
	return expanded
}

// IsExpanded reports whether the entry identified by key is expanded.
func (c *Controller) IsExpanded(key uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded.IsExpanded(key)
}

// SetAutoScroll enables or disables follow-newest behavior. It is local UI
// state; polling and filtering are unaffected.
func (c *Controller) SetAutoScroll(enable bool) {
	c.mu.Lock()
	c.autoScroll = enable
	view, cb := c.buildViewLocked(), c.onUpdate
	if enable {
		view.ScrollToEnd = true
	}
	c.mu.Unlock()
	if cb != nil {
		cb(view)
	}
}

// AutoScroll reports whether follow-newest behavior is enabled.
func (c *Controller) AutoScroll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoScroll
}

// VisibleEntries returns the currently filtered entries, in snapshot order.
func (c *Controller) VisibleEntries() []logstore.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Visible(c.snapshot, c.criteria)
}

// Export materializes the currently filtered view as a plain-text artifact
// in dir and returns the written path.
func (c *Controller) Export(dir string) (string, error) {
	path, err := WriteExport(dir, c.VisibleEntries(), time.Now())
	if err != nil {
		c.log.Errorf(diagCategory, "export failed: %v", err)
		return "", err
	}
	c.log.Infof(diagCategory, "exported filtered view to %s", path)
	return path, nil
}

// buildViewLocked assembles the observer's View. Caller must hold c.mu.
func (c *Controller) buildViewLocked() View {
	search := strings.ToLower(c.criteria.Search)
	rows := make([]Row, 0, len(c.snapshot))
	sig := fnv.New64a()
	var warns, errors int
	for i, entry := range c.snapshot {
		switch entry.Level {
		case logstore.LevelWarn:
			warns++
		case logstore.LevelError:
			errors++
		}
		if !c.criteria.matches(entry, search) {
			continue
		}
		key := EntryKey(entry, i)
		rows = append(rows, Row{
			Entry:    entry,
			Key:      key,
			Expanded: c.expanded.IsExpanded(key),
		})
		var buf [8]byte
		for b := 0; b < 8; b++ {
			buf[b] = byte(key >> (8 * b))
		}
		sig.Write(buf[:])
	}

	visibleSig := sig.Sum64()
	changed := visibleSig != c.visibleSig
	c.visibleSig = visibleSig

	return View{
		State:       c.state,
		Rows:        rows,
		Categories:  Categories(c.snapshot),
		Criteria:    c.criteria,
		AutoScroll:  c.autoScroll,
		ScrollToEnd: c.autoScroll && changed,
		Total:       len(c.snapshot),
		WarnCount:   warns,
		ErrorCount:  errors,
	}
}
