package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/dau-dev/simview/pkg/analysis"
	"github.com/dau-dev/simview/pkg/config"
	"github.com/dau-dev/simview/pkg/design"
	"github.com/dau-dev/simview/pkg/export"
	"github.com/dau-dev/simview/pkg/session"
	"github.com/dau-dev/simview/pkg/ui"
	"github.com/dau-dev/simview/pkg/version"
	"github.com/dau-dev/simview/pkg/watcher"
	"github.com/dau-dev/simview/pkg/workspace"
)

func main() {
	designPath := flag.String("design", "", "Design hierarchy dump to load (JSON)")
	wavePath := flag.String("wave", "", "Waveform file to load (VCD header)")
	configPath := flag.String("config", "", "Config file path (default: XDG config dir)")
	demo := flag.Bool("demo", false, "Browse a built-in synthetic design")
	stats := flag.Bool("stats", false, "Print design statistics and exit")
	exportMD := flag.String("export-md", "", "Write a markdown hierarchy report and exit")
	exportSVG := flag.String("export-svg", "", "Write an SVG hierarchy snapshot and exit")
	exportPNG := flag.String("export-png", "", "Write a PNG hierarchy snapshot and exit")
	noWatch := flag.Bool("no-watch", false, "Disable design file watching")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("simview %s\n", version.Version)
		os.Exit(0)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *designPath == "" && !*demo {
		fmt.Fprintln(os.Stderr, "No design given. Use -design <file> or -demo.")
		flag.PrintDefaults()
		os.Exit(2)
	}

	loaded, err := loadInputs(*designPath, *wavePath, *demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	d := loaded.Design

	// Offline modes never need a terminal.
	if *stats {
		if err := analysis.Build(d).Report(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *exportMD != "" {
		exitOnErr(export.SaveMarkdown(d, *exportMD, d.Name))
		fmt.Printf("Wrote %s\n", *exportMD)
		return
	}
	if *exportSVG != "" {
		exitOnErr(export.SaveSnapshot(d, export.SnapshotOptions{Path: *exportSVG, Format: "svg"}))
		fmt.Printf("Wrote %s\n", *exportSVG)
		return
	}
	if *exportPNG != "" {
		exitOnErr(export.SaveSnapshot(d, export.SnapshotOptions{Path: *exportPNG, Format: "png"}))
		fmt.Printf("Wrote %s\n", *exportPNG)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "simview is interactive; stdout is not a terminal.")
		fmt.Fprintln(os.Stderr, "Use -stats or -export-* for non-interactive output.")
		os.Exit(1)
	}

	m := ui.NewModel(d, loaded.Wave, *designPath, cfg)
	defer m.Stop()

	if store, err := session.Open(cfg.ResolvedStateDir()); err == nil {
		m = m.WithSessionStore(store)
	}

	if *designPath != "" && !*noWatch && !cfg.Watch.Disabled {
		ch := m.WatchChan()
		w, err := watcher.New(*designPath,
			watcher.WithPollInterval(cfg.Watch.PollInterval),
			watcher.WithOnChange(func() {
				select {
				case ch <- struct{}{}:
				default:
				}
			}),
		)
		if err == nil {
			m = m.WithWatcher(w)
		}
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simview: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func loadInputs(designPath, wavePath string, demo bool) (workspace.Result, error) {
	if demo {
		return workspace.Result{Design: design.Demo()}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return workspace.NewLoader().Load(ctx, workspace.Inputs{
		DesignPath: designPath,
		WavePath:   wavePath,
	})
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	return err
}
