// cmd/inventory/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/tamzrod/tag-inventory/internal/buttons"
	"github.com/tamzrod/tag-inventory/internal/config"
	"github.com/tamzrod/tag-inventory/internal/controls"
	"github.com/tamzrod/tag-inventory/internal/cooldown"
	"github.com/tamzrod/tag-inventory/internal/engine"
	"github.com/tamzrod/tag-inventory/internal/ledger"
	"github.com/tamzrod/tag-inventory/internal/logging"
	"github.com/tamzrod/tag-inventory/internal/metrics"
	"github.com/tamzrod/tag-inventory/internal/ndef"
	"github.com/tamzrod/tag-inventory/internal/render"
	"github.com/tamzrod/tag-inventory/internal/render/terminal"
	"github.com/tamzrod/tag-inventory/internal/scanner"
	"github.com/tamzrod/tag-inventory/internal/writer"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfgPath string
	var logLevel string

	flagSet := pflag.NewFlagSet("inventory", pflag.ContinueOnError)
	flagSet.StringVar(&cfgPath, "config", "inventory.yaml", "path to YAML config")
	flagSet.StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Bool("version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if v, _ := flagSet.GetBool("version"); v {
		fmt.Printf("inventory %s\n", version)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// The default path is optional; an explicit one is not.
		if flagSet.Changed("config") || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config load failed: %w", err)
		}
		cfg = &config.Config{}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	inv := cfg.Inventory

	log, closeLog, err := logging.New(inv.Log, logging.Options{LevelOverride: logLevel})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Metrics
	// --------------------

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	if inv.Metrics.Listen != "" {
		exp, err := metrics.NewExporter(inv.Metrics.Listen, reg)
		if err != nil {
			return fmt.Errorf("metrics exporter failed: %w", err)
		}
		go func() {
			if err := exp.Start(); err != nil {
				log.Error("metrics exporter stopped", "err", err)
			}
		}()
		defer exp.Stop()
		log.Info("metrics listening", "addr", exp.Addr())
	}

	// --------------------
	// Collaborators (closed in reverse order)
	// --------------------

	// ---- status mirror ----
	statusWriter, closeStatus, err := writer.Build(inv.Status)
	if err != nil {
		return fmt.Errorf("status writer build failed: %w", err)
	}
	defer closeStatus()

	var publisher engine.Publisher
	if statusWriter != nil {
		mirror := writer.NewMirror(statusWriter, log.With("component", "status"))
		mirrorCtx, cancelMirror := context.WithCancel(context.Background())
		mirrorDone := make(chan struct{})
		go func() {
			mirror.Run(mirrorCtx)
			close(mirrorDone)
		}()
		defer func() {
			cancelMirror()
			<-mirrorDone
		}()
		publisher = mirror
	}

	// ---- reader ----
	sc, closeScanner, err := scanner.Build(inv.Reader)
	if err != nil {
		return fmt.Errorf("reader build failed: %w", err)
	}
	defer closeScanner()

	// ---- buttons ----
	levels, err := buttons.Build(inv.Buttons)
	if err != nil {
		return fmt.Errorf("buttons build failed: %w", err)
	}
	defer levels.Close()

	var panel *controls.Panel
	if specs := buttons.Specs(inv.Buttons); len(specs) > 0 {
		panel, err = controls.NewPanel(specs, controls.Timing{
			Debounce: time.Duration(inv.Buttons.DebounceMs) * time.Millisecond,
			Hold:     time.Duration(inv.Buttons.HoldMs) * time.Millisecond,
		})
		if err != nil {
			return err
		}
	}

	// ---- display ----
	sink := buildSink(inv.Display)
	defer sink.Close()

	// ---- ledger ----
	led, err := ledger.New(ledger.Config{
		Path:        inv.Store.Path,
		AtomicWrite: *inv.Store.AtomicWrite,
	}, log.With("component", "ledger"))
	if err != nil {
		return err
	}

	e := inv.Engine
	eng, err := engine.New(engine.Config{
		Tick:    time.Duration(e.TickMs) * time.Millisecond,
		Alert:   time.Duration(e.AlertMs) * time.Millisecond,
		Boot:    time.Duration(e.BootMs) * time.Millisecond,
		Visible: e.VisibleCount,
		Title:   inv.Display.Title,
	}, engine.Deps{
		Scanner:  sc,
		Decoder:  ndef.NewDecoder(log.With("component", "ndef")),
		Ledger:   led,
		Governor: cooldown.New(time.Duration(e.CooldownMs) * time.Millisecond),
		Panel:    panel,
		Levels:   levels,
		Sink:     sink,
		Status:   publisher,
		Metrics:  m,
		Log:      log.With("component", "engine"),
	})
	if err != nil {
		return err
	}

	log.Info("inventory starting",
		"version", version,
		"reader", inv.Reader.Type,
		"buttons", inv.Buttons.Driver,
		"display", inv.Display.Type,
		"status", statusWriter != nil,
	)

	return eng.Run(ctx)
}

func buildSink(d config.DisplayConfig) render.Sink {
	switch d.Type {
	case "none":
		return render.Discard{}
	default:
		return terminal.New(os.Stdout, terminal.Config{
			Title:     d.Title,
			NameWidth: d.NameWidth,
		})
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `inventory keeps a list of items toggled by tapping NFC tags.

Tapping a tag adds its text identifier to the inventory, tapping it again
removes it. Buttons scroll the list; holding the clear button empties it.

Usage:
  inventory [flags]

Flags:
%s`, flagSet.FlagUsages())
}
