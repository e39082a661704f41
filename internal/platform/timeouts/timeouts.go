// Package timeouts defines shared timeout constants used across the service.
package timeouts

import "time"

// BackendRequest caps one call to the hosted backend when the caller sets no
// deadline of its own.
const BackendRequest = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// PreferenceWrite caps one synchronous UI preference save.
const PreferenceWrite = 2 * time.Second
