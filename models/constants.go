package models

// Approval states as they appear in scheduler-UI request bodies.
const (
	StatePending  = "Pending"
	StateApproved = "Approved"
	StateDeclined = "Declined"
)

// Parties a pending request can be assigned to.
const (
	AssignedToRecipient = "recipient"
	AssignedToManager   = "manager"
	AssignedToSystem    = "system"
)

// Statuses stored on swap-shift mappings.
const (
	SwapShiftPending   = "Pending"
	SwapShiftSubmitted = "Submitted"
	SwapShiftApproved  = "Approved"
	SwapShiftDeclined  = "Declined"
	SwapShiftCancelled = "Cancelled"
)

// ResourceKind is the target resource of a webhook sub-request, derived
// from its URL.
type ResourceKind int

const (
	ResourceUnknown ResourceKind = iota
	ResourceOpenShiftRequest
	ResourceSwapShiftRequest
	ResourceOpenShift
	ResourceShift
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceOpenShiftRequest:
		return "openShiftRequest"
	case ResourceSwapShiftRequest:
		return "swapShiftRequest"
	case ResourceOpenShift:
		return "openShift"
	case ResourceShift:
		return "shift"
	}
	return "unknown"
}

// DurationKind describes how a WFM period expresses its span.
type DurationKind int

const (
	DurationHours DurationKind = iota
	DurationHalfDay
	DurationFullDay
)
