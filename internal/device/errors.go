// SPDX-License-Identifier: MIT
package device

import "errors"

// Lifecycle and validation errors. Lifecycle errors are fatal to the
// call but recoverable by re-initializing; validation errors leave
// device state untouched.
var (
	ErrNotInitialized   = errors.New("device not initialized")
	ErrShutdown         = errors.New("device has been shut down")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrSensitivityRange = errors.New("sensitivity outside supported range")
)
