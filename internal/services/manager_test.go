package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/catalog-eda/internal/config"
	"github.com/j-veylop/catalog-eda/internal/generate"
	"github.com/j-veylop/catalog-eda/internal/loader"
	"github.com/j-veylop/catalog-eda/internal/models"
)

func writeGenerated(t *testing.T, path string, seed uint64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	if err := generate.Generate(f, generate.Options{Records: 200, Seed: seed, Now: now}); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := &config.Config{
		DatasetPath:   filepath.Join(tmpDir, "titles.csv"),
		OutputDir:     filepath.Join(tmpDir, "charts"),
		DatabasePath:  filepath.Join(tmpDir, "runs.db"),
		TopN:          10,
		HistogramBins: 20,
		WatchDebounce: 20 * time.Millisecond,
	}
	writeGenerated(t, cfg.DatasetPath, 1)
	return cfg
}

func TestNewManager(t *testing.T) {
	cfg := testConfig(t)

	mgr, err := NewManager(cfg, Options{Record: true, Render: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Config() != cfg {
		t.Error("Config mismatch")
	}
	if mgr.LastReport() != nil {
		t.Error("no report expected before the first run")
	}
}

func TestManager_WithoutDatabase(t *testing.T) {
	mgr, err := NewManager(testConfig(t), Options{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.Database() != nil {
		t.Error("Database should not be opened")
	}
	runs, err := mgr.RecentRuns(5)
	if err != nil || runs != nil {
		t.Errorf("RecentRuns() = %v, %v", runs, err)
	}
	months, err := mgr.RunsPerMonth()
	if err != nil || months != nil {
		t.Errorf("RunsPerMonth() = %v, %v", months, err)
	}

	ev, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if ev.Run != nil || len(ev.Files) != 0 {
		t.Errorf("nothing should be recorded or rendered: %+v", ev)
	}
	if _, _, err := mgr.Run(1); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Run without a database: %v", err)
	}
	if err := mgr.DeleteRun(1); !errors.Is(err, ErrNoHistory) {
		t.Errorf("DeleteRun without a database: %v", err)
	}
}

func TestManager_Analyze(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := NewManager(cfg, Options{Record: true, Render: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ev, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if ev.Report.RecordCount != 200 || ev.Report.Types.Total() != 200 {
		t.Errorf("unexpected report: %d records, %d typed", ev.Report.RecordCount, ev.Report.Types.Total())
	}
	if len(ev.Files) != 10 {
		t.Errorf("expected 10 rendered files, got %d", len(ev.Files))
	}
	if ev.Run == nil || ev.Run.ID == 0 {
		t.Fatal("run should be recorded")
	}
	if ev.Trigger != TriggerManual || ev.Drift {
		t.Errorf("unexpected event: trigger=%s drift=%v", ev.Trigger, ev.Drift)
	}
	if mgr.LastReport() != ev {
		t.Error("LastReport should return the latest event")
	}

	sha, _ := loader.HashFile(cfg.DatasetPath)
	if ev.Run.DatasetSHA256 != sha {
		t.Errorf("dataset hash = %s, want %s", ev.Run.DatasetSHA256, sha)
	}

	stored, err := mgr.Database().GetRunAggregates(ev.Run.ID, models.ChartTypes)
	if err != nil || len(stored) != len(ev.Report.Types) {
		t.Errorf("stored types = %v (%v)", stored, err)
	}
}

func TestManager_RunLookupAndDelete(t *testing.T) {
	mgr, err := NewManager(testConfig(t), Options{Record: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ev, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	run, points, err := mgr.Run(ev.Run.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Fingerprint != ev.Report.Fingerprint {
		t.Errorf("stored fingerprint %s, want %s", run.Fingerprint, ev.Report.Fingerprint)
	}
	if got := len(points[models.ChartTypes]); got != len(ev.Report.Types) {
		t.Errorf("stored %d type rows, want %d", got, len(ev.Report.Types))
	}

	if err := mgr.DeleteRun(run.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if runs, _ := mgr.RecentRuns(10); len(runs) != 0 {
		t.Errorf("expected no runs after delete, got %d", len(runs))
	}
}

func TestManager_AnalyzeIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := NewManager(cfg, Options{Record: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	first, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("first Analyze failed: %v", err)
	}
	second, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("second Analyze failed: %v", err)
	}

	if first.Report.Fingerprint != second.Report.Fingerprint {
		t.Error("two runs over the same file should share a fingerprint")
	}
	if second.Drift {
		t.Error("identical runs must not report drift")
	}

	runs, err := mgr.RecentRuns(10)
	if err != nil || len(runs) != 2 {
		t.Errorf("expected 2 recorded runs, got %d (%v)", len(runs), err)
	}
}

func TestManager_DetectsDrift(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := NewManager(cfg, Options{Record: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	sha, _ := loader.HashFile(cfg.DatasetPath)
	prior := &models.Run{
		DatasetPath:   cfg.DatasetPath,
		DatasetSHA256: sha,
		Fingerprint:   "stale",
		TopN:          cfg.TopN,
		HistogramBins: cfg.HistogramBins,
	}
	if err := mgr.Database().InsertRun(prior, nil); err != nil {
		t.Fatal(err)
	}

	ev, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !ev.Drift {
		t.Error("expected drift against a run with a different fingerprint")
	}
}

func TestManager_AnalyzeMissingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")

	mgr, err := NewManager(cfg, Options{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch, _ := mgr.Subscribe()

	_, err = mgr.Analyze(context.Background())
	if !errors.Is(err, loader.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, ok := (<-ch).(AnalysisStartedEvent); !ok {
		t.Error("expected AnalysisStartedEvent first")
	}
	ev, ok := (<-ch).(ErrorEvent)
	if !ok || ev.Service != "loader" {
		t.Errorf("expected loader ErrorEvent, got %#v", ev)
	}
}

func TestManager_AnalyzeCanceled(t *testing.T) {
	mgr, err := NewManager(testConfig(t), Options{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mgr.Analyze(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, err := NewManager(testConfig(t), Options{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch, cmd := mgr.Subscribe()
	if ch == nil || cmd == nil {
		t.Fatal("Subscribe should return a channel and a command")
	}

	if _, err := mgr.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if _, ok := cmd().(AnalysisStartedEvent); !ok {
		t.Error("expected AnalysisStartedEvent")
	}
	msg := WaitForEvent(ch)()
	if ready, ok := msg.(ReportReadyEvent); !ok || ready.Report == nil {
		t.Errorf("expected ReportReadyEvent, got %#v", msg)
	}

	mgr.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestManager_Watch(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := NewManager(cfg, Options{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch, _ := mgr.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := mgr.Watch(ctx); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := mgr.Watch(ctx); err == nil {
		t.Error("second Watch should fail")
	}

	writeGenerated(t, cfg.DatasetPath, 2)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ready, ok := ev.(ReportReadyEvent); ok {
				if ready.Trigger != TriggerWatch {
					t.Errorf("Trigger = %s, want %s", ready.Trigger, TriggerWatch)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for watch-triggered report")
		}
	}
}

func TestManager_CloseTwice(t *testing.T) {
	mgr, err := NewManager(testConfig(t), Options{Record: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestShortFingerprint(t *testing.T) {
	if got := shortFingerprint("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortFingerprint() = %s", got)
	}
	if got := shortFingerprint("abc"); got != "abc" {
		t.Errorf("shortFingerprint() = %s", got)
	}
}

func TestManager_RecordUsesParsedDigest(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := NewManager(cfg, Options{Record: true})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ev, err := mgr.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// The file on disk is replaced after it was parsed; the run must still
	// carry the digest of the parsed bytes.
	if err := os.WriteFile(cfg.DatasetPath, []byte("rewritten\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	run, drift, err := mgr.record(ev.Report, ev.Run.DatasetSHA256)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if run.DatasetSHA256 != ev.Run.DatasetSHA256 || drift {
		t.Errorf("run = %s drift=%v, want %s without drift", run.DatasetSHA256, drift, ev.Run.DatasetSHA256)
	}
	onDisk, _ := loader.HashFile(cfg.DatasetPath)
	if run.DatasetSHA256 == onDisk {
		t.Error("record should not hash the file again")
	}
}
