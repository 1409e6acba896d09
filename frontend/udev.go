package frontend

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	udev "github.com/jochenvg/go-udev"
)

// DeviceEvent describes a udev action against the tuner's USB device node.
type DeviceEvent struct {
	Action string // "add", "remove", "bind", "unbind"
	DevNode string
}

// UdevWatcher watches the kernel device tree for the tuner's USB node
// appearing and disappearing, and reports each change as a DeviceEvent.
// Nothing reopens the device on these events: radio.State.Run returns on a
// front-end read error, and cmd/radiodiags only logs the events.
type UdevWatcher struct {
	subsystem string
	vendorID  string
	logger    *log.Logger
}

// NewUdevWatcher watches devices in subsystem (typically "usb") whose
// ID_VENDOR_ID udev property equals vendorID.
func NewUdevWatcher(subsystem, vendorID string, logger *log.Logger) *UdevWatcher {
	return &UdevWatcher{subsystem: subsystem, vendorID: vendorID, logger: logger}
}

// Watch starts monitoring and returns a channel of device events. The
// channel is closed when ctx is cancelled; Watch never blocks the caller.
func (w *UdevWatcher) Watch(ctx context.Context) (<-chan DeviceEvent, error) {
	u := udev.Udev{}
	monitor := u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem(w.subsystem); err != nil {
		return nil, fmt.Errorf("frontend: udev filter: %w", err)
	}

	raw, err := monitor.DeviceChan(ctx)
	if err != nil {
		return nil, fmt.Errorf("frontend: udev monitor: %w", err)
	}

	events := make(chan DeviceEvent, 4)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-raw:
				if !ok {
					return
				}
				if w.vendorID != "" && d.PropertyValue("ID_VENDOR_ID") != w.vendorID {
					continue
				}
				evt := DeviceEvent{Action: d.Action(), DevNode: d.Devnode()}
				if w.logger != nil {
					w.logger.Debug("udev event", "action", evt.Action, "devnode", evt.DevNode)
				}
				select {
				case events <- evt:
				case <-ctx.Done():
					return
				default:
					// Drop-oldest: a backlogged consumer only ever cares
					// about the most recent device state.
					select {
					case <-events:
					default:
					}
					events <- evt
				}
			}
		}
	}()

	return events, nil
}
