// internal/monitor/builder.go
package monitor

import (
	"time"

	cfg "github.com/zorkian/chibichonk/internal/config"
	"github.com/zorkian/chibichonk/internal/notify"
	"github.com/zorkian/chibichonk/internal/telemetry/mqtt"
)

// Build constructs one fully-wired worker for a configured printer.
// Bad printer identity fails fast here; connecting happens inside Run so a
// dead printer cannot hold up its siblings.
func Build(p cfg.PrinterConfig, global cfg.Config, notifier notify.Notifier, deps Dependencies) (*Worker, error) {
	src, err := mqtt.New(mqtt.Config{
		Host:       p.IP,
		Serial:     p.Serial,
		AccessCode: p.AccessCode,
		Timeout:    10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return NewWorker(
		WorkerConfig{
			Printer:      p.Name,
			PingUserID:   p.PingUserID,
			Debug:        p.Debug,
			PollInterval: time.Duration(global.PollIntervalMs) * time.Millisecond,
			Engine: EngineConfig{
				TimeInterval:    time.Duration(global.Discord.UpdateTimeInterval) * time.Second,
				PercentInterval: global.Discord.PercentInterval(),
			},
		},
		src,
		notifier,
		deps,
	)
}
