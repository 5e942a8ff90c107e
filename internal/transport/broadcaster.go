// SPDX-License-Identifier: MIT
package transport

import (
	"fmt"
	"sync"
	"time"

	"audioviz/internal/analyzer"
	applog "audioviz/internal/log"
)

// Broadcaster periodically snapshots the analyzer on the query side and
// hands the result to a Transport. It runs one goroutine between Start and
// Stop; the audio thread never sees it.
type Broadcaster struct {
	transport Transport
	analyzer  *analyzer.Analyzer
	interval  time.Duration

	// Band query parameters for the snapshots.
	bands      int
	bandLoPass int
	bandHiPass int

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewBroadcaster creates a broadcaster polling the analyzer at the given
// interval. An interval <= 0 defaults to ~60 Hz.
func NewBroadcaster(interval time.Duration, tr Transport, an *analyzer.Analyzer, bands, loPass, hiPass int) (*Broadcaster, error) {
	if tr == nil {
		return nil, fmt.Errorf("broadcaster: transport cannot be nil")
	}
	if an == nil {
		return nil, fmt.Errorf("broadcaster: analyzer cannot be nil")
	}
	if interval <= 0 {
		interval = 16 * time.Millisecond
		applog.Warnf("Broadcaster: invalid interval, defaulting to %s", interval)
	}
	if bands <= 0 {
		bands = analyzer.DefaultBandCount
	}

	return &Broadcaster{
		transport:  tr,
		analyzer:   an,
		interval:   interval,
		bands:      bands,
		bandLoPass: loPass,
		bandHiPass: hiPass,
	}, nil
}

// Start launches the broadcast goroutine. Calling Start on a running
// broadcaster is a no-op.
func (b *Broadcaster) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ticker != nil {
		return
	}

	b.ticker = time.NewTicker(b.interval)
	b.doneChan = make(chan struct{})
	b.stopOnce = sync.Once{}

	b.wg.Add(1)
	go b.run(b.ticker, b.doneChan)

	applog.Infof("Broadcaster: started (interval %s, %d bands)", b.interval, b.bands)
}

// Stop halts the broadcast goroutine and waits for it to exit.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	ticker, done := b.ticker, b.doneChan
	b.mu.Unlock()
	if ticker == nil {
		return
	}

	b.stopOnce.Do(func() {
		ticker.Stop()
		close(done)
	})
	b.wg.Wait()

	b.mu.Lock()
	b.ticker = nil
	b.mu.Unlock()
}

func (b *Broadcaster) run(ticker *time.Ticker, done chan struct{}) {
	defer b.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := &Snapshot{
				Type:     "analysis",
				RMS:      b.analyzer.RMSLevel(),
				Peak:     b.analyzer.PeakLevel(),
				Bands:    b.analyzer.FrequencyBands(b.bands, b.bandLoPass, b.bandHiPass),
				Mirrored: b.analyzer.MirroredSpectrum(),
			}
			if err := b.transport.Send(snap); err != nil {
				applog.Errorf("Broadcaster: send failed: %v", err)
			}
		}
	}
}
