package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// DispatchReport lists the outcome of one dispatch per channel
type DispatchReport struct {
	Message   string
	Delivered []string
	Failed    []*ChannelError
}

// OK reports whether every channel accepted the message
func (r *DispatchReport) OK() bool {
	return len(r.Failed) == 0
}

// Err joins the per-channel failures, or returns nil
func (r *DispatchReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Dispatcher fans an alert batch out to every enabled channel, one after
// another. A failing channel is logged and skipped; it never stops the rest.
type Dispatcher struct {
	channels []Channel
	title    string
	logger   *log.Logger
}

// NewDispatcher creates a new dispatcher over the given channels
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		title:    DefaultTitle,
		logger:   log.New(log.Writer(), "[Notify] ", log.LstdFlags),
	}
}

// SetLogger sets a custom logger
func (d *Dispatcher) SetLogger(logger *log.Logger) {
	d.logger = logger
}

// SetTitle sets the title used for popups and email subjects
func (d *Dispatcher) SetTitle(title string) {
	d.title = title
}

// Channels returns the names of the configured channels in dispatch order
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch joins alerts into one multi-line message and sends it through
// every channel. The returned report is never nil.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []string) *DispatchReport {
	report := &DispatchReport{Message: strings.Join(alerts, "\n")}
	if len(alerts) == 0 {
		return report
	}

	if len(d.channels) == 0 {
		d.logger.Printf("%v, alert not delivered", ErrNoChannels)
		return report
	}

	for _, ch := range d.channels {
		if err := d.send(ctx, ch, report.Message); err != nil {
			var chErr *ChannelError
			if !errors.As(err, &chErr) {
				chErr = NewChannelError(ch.Name(), "delivery failed", err)
			}
			if IsConfigError(chErr) {
				d.logger.Printf("Skipping %s notification, check its config: %v", ch.Name(), chErr)
			} else {
				d.logger.Printf("Failed to send %s notification: %v", ch.Name(), chErr)
			}
			report.Failed = append(report.Failed, chErr)
			continue
		}
		d.logger.Printf("%s notification sent", ch.Name())
		report.Delivered = append(report.Delivered, ch.Name())
	}

	return report
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewChannelError(ch.Name(), "panic during delivery", fmt.Errorf("%v", r))
		}
	}()
	return ch.Send(ctx, d.title, message)
}
