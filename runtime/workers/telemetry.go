package workers

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/shirou/gopsutil/process"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// TelemetryWorker periodically reports channel saturation and the process's
// own CPU/RAM usage. Reading len(channel) and cap(channel) is non-blocking,
// so sampling never interferes with the pipeline.
type TelemetryWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, channels []NamedChannel,
	metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, channels: channels, metricInterval: metricInterval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.sampleChannels()
			w.sampleProcess(self)
		}
	}
}

func (w *TelemetryWorker) sampleChannels() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		w.log.Debug("Channel capacity",
			"name", nc.Name, "length", v.Len(), "capacity", v.Cap())
	}
}

func (w *TelemetryWorker) sampleProcess(self *process.Process) {
	cpu, err := self.CPUPercent()
	if err != nil {
		w.log.Error("Error while reading process cpu usage", "err", err)
		return
	}
	ram, err := self.MemoryPercent()
	if err != nil {
		w.log.Error("Error while reading process ram usage", "err", err)
		return
	}
	w.log.Debug("Process usage", "cpu", cpu, "ram", ram)
}
