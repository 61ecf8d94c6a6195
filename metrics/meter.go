// Package metrics keeps running counts and rates for the conversion feed.
package metrics

import (
	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/osgridd/common"
	"github.com/rotblauer/osgridd/events"
	"log/slog"
	"sync/atomic"
	"time"
)

// ConversionMeter counts conversions flowing on the event feed and keeps
// moving rates over them.
type ConversionMeter struct {
	started time.Time
	ticker  *time.Ticker
	sub     event.Subscription
	ch      chan events.Conversion
	lastOp  atomic.Value
	reg     metrics.Registry
	count   metrics.Counter
	meter   metrics.Meter
}

// NewConversionMeter subscribes to the conversion feed and logs a summary
// line every interval. A zero interval disables the periodic log but still
// counts.
func NewConversionMeter(interval time.Duration) *ConversionMeter {
	// Enable metrics package.
	// Won't work without this global setting.
	metrics.Enabled = true

	reg := metrics.NewRegistry()
	m := &ConversionMeter{
		started: time.Now(),
		ch:      make(chan events.Conversion, 32),
		reg:     reg,
		count:   metrics.NewCounter(),
		meter:   metrics.NewMeter(),
	}
	if err := reg.Register("conversions.count", m.count); err != nil {
		panic(err)
	}
	if err := reg.Register("conversions.meter", m.meter); err != nil {
		panic(err)
	}
	m.sub = events.ConversionFeed.Subscribe(m.ch)
	go m.run(interval)
	return m
}

func (m *ConversionMeter) run(interval time.Duration) {
	var tick <-chan time.Time
	if interval > 0 {
		m.ticker = time.NewTicker(interval)
		tick = m.ticker.C
	}
	for {
		select {
		case ev := <-m.ch:
			m.mark(ev)
		case <-tick:
			m.log()
		case err := <-m.sub.Err():
			if err != nil {
				slog.Warn("Conversion meter subscription ended", "error", err)
			}
			return
		}
	}
}

func (m *ConversionMeter) mark(ev events.Conversion) {
	m.lastOp.Store(ev.Op)
	m.count.Inc(1)
	m.meter.Mark(1)
}

func (m *ConversionMeter) log() {
	snap := m.meter.Snapshot()
	slog.Info("Conversions", "n", humanize.Comma(snap.Count()),
		"last", m.LastOp(),
		"cps", common.DecimalToFixed(snap.Rate1(), 2),
		"running", time.Since(m.started).Round(time.Second))
}

// Count returns the number of conversions seen since construction.
func (m *ConversionMeter) Count() int64 {
	return m.meter.Snapshot().Count()
}

// Rate1 returns the one-minute moving average of conversions per second.
func (m *ConversionMeter) Rate1() float64 {
	return m.meter.Snapshot().Rate1()
}

// LastOp returns the most recently observed operation, empty before any.
func (m *ConversionMeter) LastOp() events.Op {
	if v := m.lastOp.Load(); v != nil {
		return v.(events.Op)
	}
	return ""
}

func (m *ConversionMeter) Stop() {
	if m == nil {
		return
	}
	if m.ticker != nil {
		m.ticker.Stop()
	}
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
	m.meter.Stop()
}
