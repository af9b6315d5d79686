package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"prop-sequence/config"
	"prop-sequence/debug"
	"prop-sequence/gpio"
	"prop-sequence/midi"
	"prop-sequence/sequencer"
	"prop-sequence/theme"
	"prop-sequence/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/prop-sequence/config.json)")
	headless := flag.Bool("headless", false, "run without the terminal UI")
	debugLog := flag.Bool("debug", false, "write ~/.config/prop-sequence/debug.log")
	save := flag.Bool("save-config", false, "write the effective config (defaults filled in) and exit")
	flag.Parse()

	if *save {
		if err := saveConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath, *headless, *debugLog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, headless, debugLog bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if debugLog || cfg.Debug {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	var th *theme.Theme
	if !headless {
		if th, err = loadTheme(cfg.Palette); err != nil {
			return err
		}
	}

	r, err := openRig(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	// Hot-plugged controllers mirror the mask through the slot
	var slot sequencer.Slot
	player := sequencer.NewPlayer(sequencer.Show(), r.Output(&slot))
	driver := sequencer.NewDriver(player, sequencer.TickPeriod)
	fire := func() { driver.Trigger() }

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if t := cfg.Triggers.GPIO; t.Enabled {
		trig := gpio.NewTrigger(t.Pin, time.Duration(t.DebounceMs)*time.Millisecond)
		go trig.Run(ctx, fire)
	}

	deviceMgr := midi.NewDeviceManager(cfg.Triggers.MIDI.PortName, cfg.Triggers.MIDI.Note)
	bank := midi.NewBank(&slot, fire)
	mgrDone := make(chan struct{})
	go func() {
		deviceMgr.Run(ctx)
		close(mgrDone)
	}()

	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	if headless {
		go bank.Run(deviceMgr.Events())
		fmt.Printf("prop-sequence: %d animations, %s show, waiting for triggers\n",
			sequencer.Show().Len(), sequencer.TickPeriod*time.Duration(sequencer.Show().TotalTicks()))
		watch(ctx, sequencer.Show(), driver.Frames(), os.Stdout)
	} else {
		m := tui.NewModel(driver, deviceMgr, bank, th)
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		cancel()
	}

	// Outputs close only once the driver has stopped writing, and
	// controllers are released before exit
	<-done
	<-mgrDone
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// saveConfig rewrites the config at path (or the default path) with every
// default filled in
func saveConfig(path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if path == "" {
		return cfg.Save()
	}
	return cfg.SaveFile(path)
}
