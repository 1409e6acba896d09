package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	term "github.com/pkg/term"

	"github.com/lestrrat-go/strftime"

	"github.com/wizardyesterday/radiodiags-go/demod"
	"github.com/wizardyesterday/radiodiags-go/radio"
)

// consoleTimestampFormat is an strftime pattern rather than Go's native
// layout; it prefixes every line the console writes back to its terminal.
const consoleTimestampFormat = "%H:%M:%S"

func timestampPrefix() string {
	f, err := strftime.New(consoleTimestampFormat)
	if err != nil {
		return ""
	}
	return f.FormatString(time.Now()) + " "
}

const frequencyStepHz = 1000

var modeCycle = []demod.Mode{
	demod.ModeNone, demod.ModeAM, demod.ModeFM, demod.ModeWBFM, demod.ModeSSBLower, demod.ModeSSBUpper,
}

// console is the thin interactive control surface described in the
// ambient stack: frequency nudge, mode cycle, and squelch threshold
// nudge. It is deliberately not the full diagnostic shell — that remains
// an external collaborator — it only exercises the radio.State control
// surface for manual testing.
type console struct {
	state       *radio.State
	logger      *log.Logger
	modeIdx     int
	thresholdDb int32
}

func newConsole(state *radio.State, logger *log.Logger, initialThresholdDb int32) *console {
	return &console{state: state, logger: logger, thresholdDb: initialThresholdDb}
}

// runPty opens a pseudo-terminal an external terminal emulator can attach
// to, and serves the console over it until ctx is cancelled.
func (c *console) runPty(ctx context.Context) error {
	ptmx, pts, err := pty.Open()
	if err != nil {
		return fmt.Errorf("console: open pty: %w", err)
	}
	defer ptmx.Close()
	defer pts.Close()

	c.logger.Info("console attach point ready", "path", pts.Name())
	fmt.Fprintln(ptmx, "radiodiags console: f/F freq down/up, m mode cycle, [/] squelch nudge, q quit")

	go func() {
		<-ctx.Done()
		ptmx.Close()
	}()

	reader := bufio.NewReader(ptmx)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		if b == 'q' {
			return nil
		}
		c.handleKey(b, ptmx)
	}
}

// runLocal puts the controlling terminal into raw mode so keystrokes reach
// the console without waiting for Enter, grounded on serial_port.go's use
// of the same library for raw-mode serial I/O.
func (c *console) runLocal(ctx context.Context) error {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return fmt.Errorf("console: open tty: %w", err)
	}
	defer tty.Restore()
	defer tty.Close()

	go func() {
		<-ctx.Done()
		tty.Close()
	}()

	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			return nil
		}
		if buf[0] == 'q' {
			return nil
		}
		c.handleKey(buf[0], tty)
	}
}

func (c *console) handleKey(key byte, out io.Writer) {
	switch key {
	case 'f':
		freq := c.state.Frequency()
		if freq > frequencyStepHz {
			freq -= frequencyStepHz
		}
		c.setFrequency(freq, out)
	case 'F':
		c.setFrequency(c.state.Frequency()+frequencyStepHz, out)
	case 'm':
		c.cycleMode(out)
	case '[':
		c.nudgeThreshold(-1, out)
	case ']':
		c.nudgeThreshold(1, out)
	}
}

func (c *console) setFrequency(hz uint64, out io.Writer) {
	if err := c.state.SetFrequency(hz); err != nil {
		fmt.Fprintf(out, "%sset_frequency failed: %v\r\n", timestampPrefix(), err)
		return
	}
	fmt.Fprintf(out, "%sfrequency = %d Hz\r\n", timestampPrefix(), hz)
}

func (c *console) cycleMode(out io.Writer) {
	c.modeIdx = (c.modeIdx + 1) % len(modeCycle)
	mode := modeCycle[c.modeIdx]
	c.state.SetMode(mode)
	fmt.Fprintf(out, "%smode = %s\r\n", timestampPrefix(), mode)
}

func (c *console) nudgeThreshold(deltaDb int32, out io.Writer) {
	c.thresholdDb += deltaDb
	c.state.Squelch().SetThreshold(c.thresholdDb)
	fmt.Fprintf(out, "%ssquelch threshold = %d dBFS\r\n", timestampPrefix(), c.thresholdDb)
}
