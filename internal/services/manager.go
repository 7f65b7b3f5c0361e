// Package services orchestrates analysis runs for the CLI and the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/catalog-eda/internal/analysis"
	"github.com/j-veylop/catalog-eda/internal/chart"
	"github.com/j-veylop/catalog-eda/internal/config"
	"github.com/j-veylop/catalog-eda/internal/db"
	"github.com/j-veylop/catalog-eda/internal/loader"
	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/services/watch"
)

// Triggers recorded on analysis events.
const (
	TriggerManual = "manual"
	TriggerWatch  = "watch"
)

type (
	// AnalysisStartedEvent is emitted before the dataset is loaded.
	AnalysisStartedEvent struct {
		Trigger string
	}

	// ReportReadyEvent is emitted when a run completed.
	ReportReadyEvent struct {
		Report   *models.Report
		Run      *models.Run
		Warnings []loader.FieldParseWarning
		Files    []string
		Trigger  string
		Elapsed  time.Duration
		// Drift is set when an earlier run over the same bytes and options
		// produced a different fingerprint.
		Drift bool
	}

	// ErrorEvent is emitted when a stage fails.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (AnalysisStartedEvent) isServiceEvent() {}
func (ReportReadyEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()           {}

// Options selects which collaborators the manager starts.
type Options struct {
	// Record stores every run in the history database.
	Record bool
	// Render writes chart files into the configured output directory.
	Render bool
}

// Manager runs the pipeline and routes its events to subscribers.
type Manager struct {
	mu          sync.RWMutex
	runMu       sync.Mutex
	cfg         *config.Config
	database    *db.DB
	renderer    *chart.Renderer
	watcher     *watch.Watcher
	stopChan    chan struct{}
	closeOnce   sync.Once
	subscribers []chan ServiceEvent
	last        *ReportReadyEvent
	notify      func(title, message string) error
}

// NewManager creates a manager for cfg.
func NewManager(cfg *config.Config, opts Options) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}

	if opts.Record {
		database, err := db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		m.database = database
	}

	if opts.Render {
		m.renderer = chart.NewRenderer(cfg.OutputDir)
	}

	if cfg.Notify {
		m.notify = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}

	return m, nil
}

// Analyze runs load, aggregate, render and record once.
func (m *Manager) Analyze(ctx context.Context) (*ReportReadyEvent, error) {
	return m.analyze(ctx, TriggerManual)
}

func (m *Manager) analyze(ctx context.Context, trigger string) (*ReportReadyEvent, error) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	m.broadcast(AnalysisStartedEvent{Trigger: trigger})

	res, err := loader.Load(m.cfg.DatasetPath)
	if err != nil {
		return nil, m.fail("loader", err)
	}

	rep, err := analysis.Run(res.Titles, analysis.Options{
		TopN:          m.cfg.TopN,
		HistogramBins: m.cfg.HistogramBins,
		WarningCount:  len(res.Warnings),
		NonMissing:    res.NonMissing,
	})
	if err != nil {
		return nil, m.fail("analysis", err)
	}

	ev := &ReportReadyEvent{Report: rep, Warnings: res.Warnings, Trigger: trigger}

	if m.renderer != nil {
		files, err := m.renderer.Render(rep)
		if err != nil {
			return nil, m.fail("chart", err)
		}
		ev.Files = files
	}

	if m.database != nil {
		run, drift, err := m.record(rep, res.SHA256)
		if err != nil {
			return nil, m.fail("db", err)
		}
		ev.Run = run
		ev.Drift = drift
	}

	ev.Elapsed = time.Since(start)
	logger.Info("analysis complete",
		"dataset", m.cfg.DatasetPath,
		"titles", rep.RecordCount,
		"warnings", rep.WarningCount,
		"fingerprint", shortFingerprint(rep.Fingerprint),
		"elapsed", ev.Elapsed,
	)

	if m.notify != nil {
		body := fmt.Sprintf("%d titles, %d warnings", rep.RecordCount, rep.WarningCount)
		_ = m.notify("Catalog analysis complete", body)
	}

	m.mu.Lock()
	m.last = ev
	m.mu.Unlock()

	m.broadcast(*ev)
	return ev, nil
}

// record stores rep and checks it against earlier runs over the same bytes.
// sha must be the digest of the bytes rep was computed from, not a fresh
// read of the file, which a watched writer may have replaced since.
func (m *Manager) record(rep *models.Report, sha string) (*models.Run, bool, error) {
	run := &models.Run{
		DatasetPath:   m.cfg.DatasetPath,
		DatasetSHA256: sha,
		Fingerprint:   rep.Fingerprint,
		RecordCount:   rep.RecordCount,
		WarningCount:  rep.WarningCount,
		TopN:          m.cfg.TopN,
		HistogramBins: m.cfg.HistogramBins,
	}

	previous, err := m.database.FindRunsByDataset(sha)
	if err != nil {
		return nil, false, err
	}
	drift := false
	for _, p := range previous {
		if p.SameOptions(*run) && p.Fingerprint != run.Fingerprint {
			drift = true
			logger.Warn("aggregates differ from an earlier run over the same dataset",
				"run", p.ID,
				"previous", shortFingerprint(p.Fingerprint),
				"current", shortFingerprint(run.Fingerprint),
			)
			break
		}
	}

	if err := m.database.InsertRun(run, rep); err != nil {
		return nil, false, err
	}
	return run, drift, nil
}

func (m *Manager) fail(service string, err error) error {
	logger.Error("analysis failed", "stage", service, "error", err)
	m.broadcast(ErrorEvent{Service: service, Error: err})
	return err
}

// Watch re-runs the analysis whenever the dataset file changes, until ctx
// is done or the manager is closed.
func (m *Manager) Watch(ctx context.Context) error {
	w, err := watch.New(m.cfg.DatasetPath, m.cfg.WatchDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch dataset: %w", err)
	}

	m.mu.Lock()
	if m.watcher != nil {
		m.mu.Unlock()
		_ = w.Close()
		return errors.New("already watching")
	}
	m.watcher = w
	m.mu.Unlock()

	logger.Info("watching dataset", "path", m.cfg.DatasetPath, "debounce", m.cfg.WatchDebounce)
	go m.routeEvents(ctx, w)
	return nil
}

// routeEvents turns watcher events into analysis runs.
func (m *Manager) routeEvents(ctx context.Context, w *watch.Watcher) {
	for {
		select {
		case ev := <-w.Events():
			switch ev.Type {
			case watch.EventChanged:
				_, _ = m.analyze(ctx, TriggerWatch)
			case watch.EventError:
				m.broadcast(ErrorEvent{Service: "watch", Error: ev.Error})
			}

		case <-ctx.Done():
			return

		case <-m.stopChan:
			return
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// LastReport returns the most recent completed run, or nil.
func (m *Manager) LastReport() *ReportReadyEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// RecentRuns returns recorded runs, newest first. Without a database it
// returns nil.
func (m *Manager) RecentRuns(limit int) ([]models.Run, error) {
	if m.database == nil {
		return nil, nil
	}
	return m.database.GetRecentRuns(limit)
}

// RunsPerMonth returns recorded run counts per month.
func (m *Manager) RunsPerMonth() ([]models.MonthlyRunCount, error) {
	if m.database == nil {
		return nil, nil
	}
	return m.database.GetRunsPerMonth()
}

// ErrNoHistory is returned by run lookups when the manager was created
// without Options.Record.
var ErrNoHistory = errors.New("run recording is disabled")

// Run returns one recorded run with the stored aggregate rows of each chart.
func (m *Manager) Run(id int64) (*models.Run, map[string][]models.AggregatePoint, error) {
	if m.database == nil {
		return nil, nil, ErrNoHistory
	}
	run, err := m.database.GetRun(id)
	if err != nil {
		return nil, nil, err
	}
	points := make(map[string][]models.AggregatePoint, len(models.Charts))
	for _, chart := range models.Charts {
		rows, err := m.database.GetRunAggregates(id, chart)
		if err != nil {
			return nil, nil, err
		}
		if len(rows) > 0 {
			points[chart] = rows
		}
	}
	return run, points, nil
}

// DeleteRun forgets a recorded run and compacts the database file.
func (m *Manager) DeleteRun(id int64) error {
	if m.database == nil {
		return ErrNoHistory
	}
	if err := m.database.DeleteRun(id); err != nil {
		return err
	}
	logger.Info("run deleted", "run", id)
	return m.database.Vacuum()
}

// Config returns the configuration the manager runs with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close stops watching and closes the database.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		w := m.watcher
		m.mu.Unlock()

		if w != nil {
			if err := w.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
