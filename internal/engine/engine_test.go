// internal/engine/engine_test.go
package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tamzrod/tag-inventory/internal/controls"
	"github.com/tamzrod/tag-inventory/internal/cooldown"
	"github.com/tamzrod/tag-inventory/internal/ledger"
	"github.com/tamzrod/tag-inventory/internal/metrics"
	"github.com/tamzrod/tag-inventory/internal/ndef"
	"github.com/tamzrod/tag-inventory/internal/render"
	"github.com/tamzrod/tag-inventory/internal/scanner"
	"github.com/tamzrod/tag-inventory/internal/status"
)

// ------------------------------------------------------------
// Fakes
// ------------------------------------------------------------

type fakeScanner struct {
	res   scanner.ScanResult
	calls int
}

func (f *fakeScanner) ScanOnce() scanner.ScanResult {
	f.calls++
	return f.res
}

func (f *fakeScanner) present(name string) {
	f.res = scanner.ScanResult{UID: []byte{1, 2, 3, 4}, Raw: ndef.EncodeText("en", name)}
}

func (f *fakeScanner) away() { f.res = scanner.ScanResult{} }

type fakeSink struct {
	views []render.View
	fail  error
}

func (f *fakeSink) Render(ctx context.Context, v render.View) error {
	if f.fail != nil {
		return f.fail
	}
	f.views = append(f.views, v)
	return nil
}

func (f *fakeSink) Close() error { return nil }

func (f *fakeSink) last(t *testing.T) render.View {
	t.Helper()
	if len(f.views) == 0 {
		t.Fatalf("nothing rendered")
	}
	return f.views[len(f.views)-1]
}

type fakeLevels map[string]bool

func (f fakeLevels) Pressed(name string) (bool, error) { return f[name], nil }

type fakePublisher struct {
	got []status.Snapshot
}

func (f *fakePublisher) Publish(s status.Snapshot) { f.got = append(f.got, s) }

// ------------------------------------------------------------
// Harness
// ------------------------------------------------------------

type harness struct {
	eng    *Engine
	scan   *fakeScanner
	sink   *fakeSink
	levels fakeLevels
	pub    *fakePublisher
	reg    *prometheus.Registry
	m      *metrics.Metrics
	store  string
	t0     time.Time
	ctx    context.Context
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, seed string, specs []controls.Spec) *harness {
	t.Helper()

	store := filepath.Join(t.TempDir(), "inventory.txt")
	if seed != "" {
		if err := os.WriteFile(store, []byte(seed), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return newHarnessAt(t, store, specs)
}

func newHarnessAt(t *testing.T, store string, specs []controls.Spec) *harness {
	t.Helper()

	led, err := ledger.New(ledger.Config{Path: store, AtomicWrite: true}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	h := &harness{
		scan:   &fakeScanner{},
		sink:   &fakeSink{},
		levels: fakeLevels{},
		pub:    &fakePublisher{},
		reg:    prometheus.NewRegistry(),
		store:  store,
		t0:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		ctx:    context.Background(),
	}
	h.m = metrics.New(h.reg)

	var panel *controls.Panel
	if len(specs) > 0 {
		panel, err = controls.NewPanel(specs, controls.Timing{})
		if err != nil {
			t.Fatal(err)
		}
	}

	h.eng, err = New(Config{Title: "Adventuring Inventory"}, Deps{
		Scanner:  h.scan,
		Decoder:  ndef.NewDecoder(quietLogger()),
		Ledger:   led,
		Governor: cooldown.New(0),
		Panel:    panel,
		Levels:   h.levels,
		Sink:     h.sink,
		Status:   h.pub,
		Metrics:  h.m,
		Log:      quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	h.eng.Start(h.ctx, h.t0)
	return h
}

func (h *harness) tick(d time.Duration) { h.eng.Tick(h.ctx, h.t0.Add(d)) }

func (h *harness) stored(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(h.store)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

var panelSpecs = []controls.Spec{
	{Name: "prev", Step: -1},
	{Name: "next", Step: 1},
	{Name: "clear", HoldClears: true},
}

// ------------------------------------------------------------
// Tests
// ------------------------------------------------------------

func TestEndToEnd_ToggleWithCooldown(t *testing.T) {
	h := newHarness(t, "", nil)

	h.scan.present("Torch")
	h.tick(50 * time.Millisecond)

	if got := h.eng.Items(); !slices.Equal(got, []string{"Torch"}) {
		t.Fatalf("after first scan items=%v", got)
	}
	if v := h.sink.last(t); v.Mode != render.ModeAlert || v.Alert == nil || v.Alert.Label != "ADDED" || v.Alert.Name != "Torch" {
		t.Fatalf("expected ADDED alert, got %+v", v)
	}
	if h.stored(t) != "Torch\n" {
		t.Fatalf("store=%q", h.stored(t))
	}

	// still in range within 1s: suppressed
	h.tick(800 * time.Millisecond)
	if got := h.eng.Items(); !slices.Equal(got, []string{"Torch"}) {
		t.Fatalf("suppressed scan changed ledger: %v", got)
	}

	// 3.1s after the toggle
	h.tick(50*time.Millisecond + 3100*time.Millisecond)
	if got := h.eng.Items(); len(got) != 0 {
		t.Fatalf("expected empty ledger, got %v", got)
	}
	if v := h.sink.last(t); v.Mode != render.ModeAlert || v.Alert.Label != "REMOVED" {
		t.Fatalf("expected REMOVED alert, got %+v", v)
	}

	s := h.eng.Snapshot()
	if s.Toggles != 2 || s.Suppressed != 1 || s.LastEvent != status.EventRemoved || s.Health != status.HealthOK {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	want := `
# HELP inventory_toggles_total Total number of ledger toggles by event
# TYPE inventory_toggles_total counter
inventory_toggles_total{event="added"} 1
inventory_toggles_total{event="removed"} 1
`
	if err := testutil.GatherAndCompare(h.reg, strings.NewReader(want), "inventory_toggles_total"); err != nil {
		t.Fatal(err)
	}
}

func TestDwellingTagTogglesOncePerCooldown(t *testing.T) {
	h := newHarness(t, "", nil)
	h.scan.present("Rope")

	// 2.9s of ticks with the tag in range
	for d := 50 * time.Millisecond; d < 2950*time.Millisecond; d += 50 * time.Millisecond {
		h.tick(d)
	}
	if got := h.eng.Items(); !slices.Equal(got, []string{"Rope"}) {
		t.Fatalf("expected a single toggle, got %v", got)
	}
	if s := h.eng.Snapshot(); s.Toggles != 1 {
		t.Fatalf("toggles=%d want 1", s.Toggles)
	}
}

func TestBootExpires(t *testing.T) {
	h := newHarness(t, "Sword\n", nil)

	if v := h.sink.last(t); v.Mode != render.ModeBoot || v.Title != "Adventuring Inventory" {
		t.Fatalf("expected boot view first, got %+v", v)
	}

	h.tick(time.Second)
	if h.eng.Mode() != render.ModeBoot {
		t.Fatalf("boot ended early")
	}

	h.tick(2 * time.Second)
	v := h.sink.last(t)
	if v.Mode != render.ModeInventory || v.Total != 1 || v.Items[0].Name != "Sword" || !v.Items[0].Selected {
		t.Fatalf("unexpected inventory view %+v", v)
	}
}

func TestAlertExpires(t *testing.T) {
	h := newHarness(t, "", nil)
	h.scan.present("Bow")
	h.tick(2 * time.Second)
	h.scan.away()

	h.tick(2*time.Second + 1400*time.Millisecond)
	if h.eng.Mode() != render.ModeAlert {
		t.Fatalf("alert ended early")
	}

	h.tick(2*time.Second + 1500*time.Millisecond)
	if v := h.sink.last(t); v.Mode != render.ModeInventory || v.Alert != nil {
		t.Fatalf("expected inventory after alert, got %+v", v)
	}
}

func TestEmitOnlyOnChange(t *testing.T) {
	h := newHarness(t, "", nil)
	h.tick(2 * time.Second) // boot -> inventory

	n := len(h.sink.views)
	for i := 1; i <= 10; i++ {
		h.tick(2*time.Second + time.Duration(i)*50*time.Millisecond)
	}
	if len(h.sink.views) != n {
		t.Fatalf("idle ticks rendered %d extra views", len(h.sink.views)-n)
	}

	p := len(h.pub.got)
	h.tick(3 * time.Second)
	if len(h.pub.got) != p {
		t.Fatalf("unchanged snapshot republished")
	}
}

func TestRenderFailureRetried(t *testing.T) {
	h := newHarness(t, "", nil)
	h.sink.fail = errors.New("display gone")
	h.tick(2 * time.Second)

	h.sink.fail = nil
	h.tick(2*time.Second + 50*time.Millisecond)
	if v := h.sink.last(t); v.Mode != render.ModeInventory {
		t.Fatalf("expected retried inventory view, got %+v", v)
	}
}

func TestNavigate_WrapsAndReloads(t *testing.T) {
	h := newHarness(t, "A\nB\nC\n", panelSpecs)
	h.tick(2 * time.Second)

	// previous from index 0 wraps to the last item
	h.levels["prev"] = true
	h.tick(2100 * time.Millisecond)
	h.levels["prev"] = false
	h.tick(2500 * time.Millisecond)

	if sel := h.eng.Selection(); sel.Index != 2 {
		t.Fatalf("index=%d want 2", sel.Index)
	}

	// an external edit is picked up on the next navigation
	if err := os.WriteFile(h.store, []byte("A\nB\nC\nD\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.levels["next"] = true
	h.tick(3 * time.Second)
	h.levels["next"] = false
	h.tick(3400 * time.Millisecond)

	if sel := h.eng.Selection(); sel.Index != 3 {
		t.Fatalf("index=%d want 3", sel.Index)
	}
	if got := h.eng.Items(); len(got) != 4 {
		t.Fatalf("ledger not reloaded: %v", got)
	}
	if v := h.sink.last(t); v.Items[len(v.Items)-1].Name != "D" || !v.Items[len(v.Items)-1].Selected {
		t.Fatalf("selection not drawn: %+v", v)
	}
}

func TestViewportFollowsSelection(t *testing.T) {
	h := newHarness(t, "A\nB\nC\nD\nE\nF\nG\n", panelSpecs)
	h.tick(2 * time.Second)

	at := 2 * time.Second
	for i := 0; i < 4; i++ {
		at += 400 * time.Millisecond
		h.levels["next"] = true
		h.tick(at)
		at += 400 * time.Millisecond
		h.levels["next"] = false
		h.tick(at)
	}

	v := h.sink.last(t)
	if v.Start != 2 || v.End != 7 || len(v.Items) != 5 {
		t.Fatalf("unexpected viewport %d-%d (%d rows)", v.Start, v.End, len(v.Items))
	}
	if !v.Items[2].Selected || v.Items[2].Name != "E" {
		t.Fatalf("selected row mismatch %+v", v.Items)
	}
}

func TestLongPressClears(t *testing.T) {
	h := newHarness(t, "Sword\nTorch\n", panelSpecs)
	h.tick(2 * time.Second)

	h.levels["clear"] = true
	for d := 2050 * time.Millisecond; d <= 12*time.Second; d += 50 * time.Millisecond {
		h.tick(d)
	}
	h.levels["clear"] = false
	h.tick(12500 * time.Millisecond)

	if got := h.eng.Items(); len(got) != 0 {
		t.Fatalf("expected cleared ledger, got %v", got)
	}
	if h.stored(t) != "" {
		t.Fatalf("store not truncated: %q", h.stored(t))
	}
	if v := h.sink.last(t); v.Mode != render.ModeInventory || v.Total != 0 {
		t.Fatalf("expected empty inventory view, got %+v", v)
	}
	want := `
# HELP inventory_button_actions_total Total number of button actions
# TYPE inventory_button_actions_total counter
inventory_button_actions_total{action="clear"} 1
`
	if err := testutil.GatherAndCompare(h.reg, strings.NewReader(want), "inventory_button_actions_total"); err != nil {
		t.Fatalf("clear must fire exactly once: %v", err)
	}
	if s := h.eng.Snapshot(); s.LastEvent != status.EventCleared {
		t.Fatalf("last event=%d want cleared", s.LastEvent)
	}
}

func TestButtonDismissesAlert(t *testing.T) {
	h := newHarness(t, "", panelSpecs)
	h.scan.present("Axe")
	h.tick(2 * time.Second)
	h.scan.away()

	h.levels["next"] = true
	h.tick(2100 * time.Millisecond)
	h.levels["next"] = false
	h.tick(2500 * time.Millisecond)

	if h.eng.Mode() != render.ModeInventory {
		t.Fatalf("alert not dismissed, mode=%s", h.eng.Mode())
	}
}

func TestHeldButtonDoesNotStallScanning(t *testing.T) {
	h := newHarness(t, "", panelSpecs)
	h.tick(2 * time.Second)

	h.levels["next"] = true
	h.tick(2050 * time.Millisecond)
	h.scan.present("Lantern")
	h.tick(3 * time.Second)

	if got := h.eng.Items(); !slices.Equal(got, []string{"Lantern"}) {
		t.Fatalf("scan during hold lost: %v", got)
	}
}

func TestUndecodableTagIgnored(t *testing.T) {
	h := newHarness(t, "", nil)
	h.scan.res = scanner.ScanResult{UID: []byte{9}, Raw: []byte{0x00, 0x00, 0xFE}}
	h.tick(2 * time.Second)

	if got := h.eng.Items(); len(got) != 0 {
		t.Fatalf("garbage changed ledger: %v", got)
	}
	if s := h.eng.Snapshot(); s.DecodeFailures != 1 {
		t.Fatalf("decode failures=%d want 1", s.DecodeFailures)
	}
}

func TestReaderErrorReportedInHealth(t *testing.T) {
	h := newHarness(t, "", nil)
	h.scan.res = scanner.ScanResult{Err: errors.New("i2c timeout")}
	h.tick(2 * time.Second)

	if s := h.eng.Snapshot(); s.Health != status.HealthReaderError {
		t.Fatalf("health=%d want reader error", s.Health)
	}
	if last := h.pub.got[len(h.pub.got)-1]; last.Health != status.HealthReaderError {
		t.Fatalf("published health=%d", last.Health)
	}

	h.scan.away()
	h.tick(2050 * time.Millisecond)
	if s := h.eng.Snapshot(); s.Health != status.HealthOK {
		t.Fatalf("health did not recover: %d", s.Health)
	}
}

func TestStoreWriteFailureStillAlerts(t *testing.T) {
	store := filepath.Join(t.TempDir(), "missing-dir", "inventory.txt")
	h := newHarnessAt(t, store, nil)

	h.scan.present("Shield")
	h.tick(2 * time.Second)

	if v := h.sink.last(t); v.Mode != render.ModeAlert || v.Alert.Label != "ADDED" {
		t.Fatalf("expected alert despite write failure, got %+v", v)
	}
	if s := h.eng.Snapshot(); s.Health != status.HealthStoreError {
		t.Fatalf("health=%d want store error", s.Health)
	}
	want := `
# HELP inventory_store_errors_total Total number of ledger store failures
# TYPE inventory_store_errors_total counter
inventory_store_errors_total{op="save"} 1
`
	if err := testutil.GatherAndCompare(h.reg, strings.NewReader(want), "inventory_store_errors_total"); err != nil {
		t.Fatal(err)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := newHarness(t, "", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.eng.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() err=%v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}, Deps{}); err == nil {
		t.Fatalf("expected error for missing collaborators")
	}
}
