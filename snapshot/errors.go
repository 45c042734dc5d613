// snapshot/errors.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package snapshot

import "errors"

// ErrInvalidSnapshot is spec.md §7's InvalidSnapshot: fatal, returned
// before any simulation state is built.
var ErrInvalidSnapshot = errors.New("invalid snapshot: missing or yields zero units")
