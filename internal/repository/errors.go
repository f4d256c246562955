// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto HTTP statuses: a missing aggregate becomes 404, a withdrawn
// one 410, and a failed capacity reservation 400.
package repository

import "errors"

// ErrExperienceNotFound is returned when no experience with the given ID
// exists.  Handlers should translate this into an HTTP 404 response.
var ErrExperienceNotFound = errors.New("experience not found")

// ErrExperienceInactive is returned when the experience exists but has been
// deactivated by an operator.  Handlers translate this into HTTP 410.
var ErrExperienceInactive = errors.New("experience is no longer active")

// ErrSlotNotFound is returned when the slot ID does not belong to the
// experience's slot collection.  Handlers translate this into HTTP 404.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotUnavailable is returned when the slot exists but its availability
// flag is off (full or withdrawn).  Handlers translate this into HTTP 410.
var ErrSlotUnavailable = errors.New("slot is no longer available")

// ErrCapacityExceeded is returned when the requested participant count does
// not fit into the slot's remaining capacity.  The conditional UPDATE that
// reserves capacity reports this when it matches zero rows, so the check
// holds even under concurrent bookings.  Handlers translate it into 400.
var ErrCapacityExceeded = errors.New("not enough spots available")

// ErrEmailExists is returned when registering a user with an email that is
// already taken.  Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting an experience that still
// has bookings.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
