// Command radiodiags drives the baseband demodulation pipeline against a
// front-end device — by default a file or pipe of captured I/Q samples,
// since no USB tuner driver is in scope — and writes demodulated PCM audio
// to a file or stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/wizardyesterday/radiodiags-go/frontend"
	"github.com/wizardyesterday/radiodiags-go/indicator"
	"github.com/wizardyesterday/radiodiags-go/radio"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = pflag.StringP("config", "c", "", "YAML configuration file (defaults built in if omitted)")
		devicePath  = pflag.StringP("device", "d", "-", "I/Q capture source: a file path, or - for stdin")
		outputPath  = pflag.StringP("output", "o", "-", "PCM output destination: a file path, or - for stdout")
		frequencyHz = pflag.Uint64P("frequency", "f", 0, "initial tuned frequency in Hz (0 leaves the config default)")
		mode        = pflag.StringP("mode", "m", "", "initial demodulator mode: AM, FM, WBFM, SSB_LSB, SSB_USB, NONE")
		gainDb      = pflag.Int32P("gain", "g", 0, "initial front-end gain in dB")
		autoGain    = pflag.BoolP("auto-gain", "a", false, "request the front-end's own automatic gain instead of a fixed value")
		scanStart   = pflag.Uint64("scan-start", 0, "enable the scanner over [scan-start, scan-end] stepping by scan-step")
		scanEnd     = pflag.Uint64("scan-end", 0, "")
		scanStep    = pflag.Uint64("scan-step", 0, "")
		console     = pflag.StringP("console", "i", "none", "interactive console: none, local, or pty")
		logLevel    = pflag.String("log-level", "info", "debug, info, warn, or error")
		ledChip     = pflag.String("led-chip", "", "gpiochip device driving a signal-present indicator (e.g. gpiochip0)")
		ledOffset   = pflag.Int("led-offset", 0, "GPIO line offset on led-chip")
		hamlibModel = pflag.Int("hamlib-model", 0, "Hamlib rig model number; when set, frequency/gain route through rigctld instead of the I/Q device")
		hamlibPort  = pflag.String("hamlib-port", "localhost:4532", "Hamlib rig_pathname (rigctld address or serial port)")
		udevVendor  = pflag.String("udev-vendor-id", "", "watch udev for this USB ID_VENDOR_ID appearing/disappearing (logged only)")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	cfg := radio.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = radio.LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}
	if *frequencyHz != 0 {
		cfg.FrequencyHz = *frequencyHz
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *gainDb != 0 {
		cfg.GainDb = *gainDb
	}
	cfg.AutoGain = *autoGain
	if err := cfg.Validate(); err != nil {
		return err
	}

	device, closeDevice, err := openDevice(*devicePath, cfg.SampleRate)
	if err != nil {
		return err
	}
	defer closeDevice()

	if *hamlibModel != 0 {
		tuner, err := frontend.NewHamlibTuner(*hamlibModel, *hamlibPort, cfg.SampleRate)
		if err != nil {
			return err
		}
		defer tuner.Close()
		device = frontend.NewTunerPairedDevice(device, tuner)
	}

	sink, closeSink, err := openSink(*outputPath)
	if err != nil {
		return err
	}
	defer closeSink()

	state, err := radio.NewState(cfg, device, sink, logger)
	if err != nil {
		return err
	}
	if cfg.FrequencyHz != 0 {
		if err := state.SetFrequency(cfg.FrequencyHz); err != nil {
			logger.Warn("initial set_frequency failed", "err", err)
		}
	}
	if err := state.SetGainDb(cfg.GainDb, cfg.AutoGain); err != nil {
		logger.Warn("initial set_gain failed", "err", err)
	}

	if *ledChip != "" {
		line, err := indicator.NewLine(*ledChip, *ledOffset)
		if err != nil {
			logger.Warn("indicator unavailable", "err", err)
		} else {
			defer line.Close()
			state.OnSignalEvent(line.Observe)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *udevVendor != "" {
		watcher := frontend.NewUdevWatcher("usb", *udevVendor, logger)
		events, err := watcher.Watch(ctx)
		if err != nil {
			logger.Warn("udev watch unavailable", "err", err)
		} else {
			go func() {
				for evt := range events {
					logger.Info("device hotplug event", "action", evt.Action, "devnode", evt.DevNode)
				}
			}()
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	if *scanStep != 0 {
		scanner := radio.NewScanner(state)
		if err := scanner.SetRange(*scanStart, *scanEnd, *scanStep); err != nil {
			return err
		}
		if err := scanner.Start(); err != nil {
			return err
		}
		go scanner.Run(ctx)
	}

	switch *console {
	case "local":
		c := newConsole(state, logger, cfg.Squelch.ThresholdDb)
		go func() {
			if err := c.runLocal(ctx); err != nil {
				logger.Warn("console exited", "err", err)
			}
		}()
	case "pty":
		c := newConsole(state, logger, cfg.Squelch.ThresholdDb)
		go func() {
			if err := c.runPty(ctx); err != nil {
				logger.Warn("console exited", "err", err)
			}
		}()
	}

	logger.Info("radiodiags starting", "mode", cfg.Mode, "sample_rate", cfg.SampleRate)
	return state.Run(ctx)
}

func openDevice(path string, sampleRate uint32) (frontend.Device, func(), error) {
	if path == "-" {
		return frontend.NewFileDevice(os.Stdin, sampleRate), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("radiodiags: open device %q: %w", path, err)
	}
	dev := frontend.NewFileDevice(f, sampleRate)
	return dev, func() { dev.Close() }, nil
}

func openSink(path string) (radio.PCMSink, func(), error) {
	var w *os.File
	if path == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("radiodiags: open output %q: %w", path, err)
		}
		w = f
	}

	sink := func(samples []int16) error {
		return writePCM(w, samples)
	}
	closer := func() {
		if w != os.Stdout {
			w.Close()
		}
	}
	return sink, closer, nil
}
