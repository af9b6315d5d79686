package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"prop-sequence/config"
	"prop-sequence/gpio"
	"prop-sequence/sequencer"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "timeline":
		err = timeline(os.Stdout, sequencer.Show())
	case "dump":
		err = dump(os.Stdout, sequencer.Show())
	case "simulate":
		ticks := sequencer.Show().TotalTicks() + 2
		if len(os.Args) > 2 {
			n, perr := strconv.ParseUint(os.Args[2], 10, 32)
			if perr != nil {
				err = fmt.Errorf("tick count: %w", perr)
				break
			}
			ticks = uint(n)
		}
		err = simulate(os.Stdout, sequencer.Show(), ticks)
	case "gpio":
		var masks []sequencer.Mask
		masks, err = gpioMasks(os.Args[2:])
		if err == nil {
			err = cycleGPIO(masks)
		}
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Prop Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  timeline      - Print every step with its start time")
	fmt.Println("  dump          - Export the show as YAML")
	fmt.Println("  simulate [n]  - Trigger once and print mask changes over n ticks")
	fmt.Println("  gpio [mask]   - Switch each channel (or masks like fog|eyes) on for a second")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI backend is hung.")
		fmt.Println("Fix (macOS): sudo killall coreaudiod midiserver")
	}
}

// gpioMasks parses masks given on the command line, defaulting to every
// channel on its own
func gpioMasks(args []string) ([]sequencer.Mask, error) {
	if len(args) == 0 {
		masks := make([]sequencer.Mask, len(sequencer.Channels))
		for i, ch := range sequencer.Channels {
			masks[i] = ch.Bit
		}
		return masks, nil
	}
	masks := make([]sequencer.Mask, len(args))
	for i, arg := range args {
		m, err := sequencer.ParseMask(arg)
		if err != nil {
			return nil, err
		}
		masks[i] = m
	}
	return masks, nil
}

func cycleGPIO(masks []sequencer.Mask) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pins, err := cfg.GPIOPins()
	if err != nil {
		return err
	}
	if err := gpio.Open(); err != nil {
		return err
	}
	defer gpio.Close()

	out := gpio.NewOutput(pins, cfg.Outputs.GPIO.ActiveLow)
	defer out.Close()

	var wired sequencer.Mask
	for bit := range pins {
		wired |= bit
	}
	for _, mask := range masks {
		if mask&^wired != 0 {
			fmt.Printf("  %-20s unwired: %s\n", mask, mask&^wired)
		}
		if mask&wired == 0 {
			continue
		}
		fmt.Printf("  %-20s on\n", mask&wired)
		out.Write(mask)
		time.Sleep(time.Second)
		out.Write(sequencer.None)
		time.Sleep(200 * time.Millisecond)
	}
	return nil
}
