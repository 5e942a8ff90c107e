// SPDX-License-Identifier: MIT
package transport

// Snapshot is one frame of display-ready analysis data, built on the query
// side at the broadcast interval. Renderers draw it directly.
type Snapshot struct {
	Type     string    `json:"type"`
	RMS      float64   `json:"rms"`
	Peak     float64   `json:"peak"`
	Bands    []float64 `json:"bands"`
	Mirrored []float64 `json:"mirrored"`
}

// Transport defines a generic interface for sending analysis snapshots.
// Implementations must be thread-safe.
type Transport interface {
	Send(snap *Snapshot) error
	Close() error
}
