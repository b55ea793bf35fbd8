package shapes

import "errors"

var (
	// ErrResourceAllocation is returned when a buffer, bind group, layout or
	// pipeline cannot be created. It is fatal at construction time.
	ErrResourceAllocation = errors.New("shapes: resource allocation failed")

	// ErrDomain is returned for invalid geometry or viewport parameters,
	// such as a circle with fewer than one segment.
	ErrDomain = errors.New("shapes: parameter out of domain")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("shapes: renderer is closed")

	// ErrUnknownKind is returned for a Kind outside the closed enumeration.
	ErrUnknownKind = errors.New("shapes: unknown shape kind")
)
