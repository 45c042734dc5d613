// dispatch/errors.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

import "errors"

// ErrInvalidScenario is spec.md §7's InvalidScenario: fatal, required
// fields missing or a negative horizon.
var ErrInvalidScenario = errors.New("invalid scenario")
