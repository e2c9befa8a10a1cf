package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/Darhlilove/dashly-sub001/pkg/config"
	"github.com/Darhlilove/dashly-sub001/pkg/dataset"
	"github.com/Darhlilove/dashly-sub001/pkg/layout"
	"github.com/Darhlilove/dashly-sub001/pkg/prefs"
	"github.com/Darhlilove/dashly-sub001/pkg/query"
	"github.com/Darhlilove/dashly-sub001/pkg/ui"
	"github.com/Darhlilove/dashly-sub001/pkg/updater"
	"github.com/Darhlilove/dashly-sub001/pkg/watcher"
)

const appVersion = "0.1.0"

func main() {
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Path to config file")
	noWatch := flag.Bool("no-watch", false, "Disable dataset file watching")
	reduced := flag.Bool("reduced-motion", false, "Disable animations")
	flag.Parse()

	if *help {
		fmt.Println("Usage: dashly [options] [dataset.csv]")
		fmt.Println("\nChat with your CSV data in the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *version {
		fmt.Println("dashly version " + appVersion)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg := config.Load(cfgPath)

	// Dataset path: positional argument, then config, then an interactive
	// prompt.
	path := flag.Arg(0)
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path == "" {
		var err error
		path, err = promptForDataset()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	ds, err := dataset.Load(path)
	if err != nil {
		fmt.Printf("Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	if err := dataset.ComputeStats(context.Background(), ds); err != nil {
		log.Printf("Warning: failed to compute column stats: %v", err)
	}

	executor, err := query.NewSQLiteExecutor(ds)
	if err != nil {
		fmt.Printf("Error preparing query engine: %v\n", err)
		os.Exit(1)
	}

	storageDir := cfg.StorageDir
	if storageDir == "" {
		storageDir = prefs.DefaultStorageDir()
	}
	var storage prefs.Storage = prefs.NewMemoryStorage()
	if fileStorage, err := prefs.NewFileStorage(storageDir); err != nil {
		log.Printf("Warning: preference storage unavailable, layout will not persist: %v", err)
	} else {
		storage = prefs.NewFallbackStorage(fileStorage)
	}
	store := prefs.NewStore(storage, layout.DefaultSplitPaneConfig())

	var history *query.HistoryDB
	if storageDir != "" {
		history, err = query.OpenHistoryDB(filepath.Join(storageDir, "history.db"))
		if err != nil {
			log.Printf("Warning: chat history unavailable: %v", err)
		}
	}

	app := ui.NewApp(ui.AppOptions{
		Config:        cfg,
		Dataset:       ds,
		Executor:      executor,
		Translator:    query.NewRuleTranslator(),
		History:       history,
		Store:         store,
		Capabilities:  detectCapabilities(),
		ReducedMotion: *reduced || ui.ReducedMotionFromEnv(),
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		tag, _, err := updater.CheckForUpdates(appVersion)
		if err == nil && tag != "" {
			p.Send(ui.StatusMsg("update available: " + tag))
		}
	}()

	if cfg.Watch.Enabled && !*noWatch {
		fw, err := watcher.New(path, func() {
			p.Send(ui.FileChangedMsg{})
		})
		if err != nil {
			log.Printf("Warning: file watching unavailable: %v", err)
		} else {
			if err := fw.Watch(); err != nil {
				log.Printf("Warning: file watching failed: %v", err)
			}
			defer fw.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running dashly: %v\n", err)
		os.Exit(1)
	}
}

func promptForDataset() (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Which CSV file do you want to explore?").
				Placeholder("data/sales.csv").
				Value(&path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a file path is required")
					}
					if _, err := os.Stat(s); err != nil {
						return fmt.Errorf("cannot read %s", s)
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// detectCapabilities inspects the terminal the way a browser feature-check
// would: each missing capability degrades one behavior instead of failing.
func detectCapabilities() layout.Capabilities {
	caps := layout.FullCapabilities()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		caps.Mouse = false
		caps.AltScreen = false
	}

	termEnv := os.Getenv("TERM")
	if termEnv == "dumb" || termEnv == "" {
		caps.Color = false
		caps.AltScreen = false
	}
	if os.Getenv("NO_COLOR") != "" {
		caps.Color = false
	}

	lang := strings.ToLower(os.Getenv("LC_ALL") + os.Getenv("LC_CTYPE") + os.Getenv("LANG"))
	if lang != "" && !strings.Contains(lang, "utf") {
		caps.Unicode = false
	}

	return caps
}
