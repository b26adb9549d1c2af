package teamsapimodels

import (
	"encoding/json"
	"strings"

	"wfm-shifts-connector/models"
)

// Batch is the decrypted webhook payload: an ordered list of sub-requests
// the scheduler UI wants acknowledged.
type Batch struct {
	Requests []SubRequest `json:"requests"`
}

// SubRequest is one atomic operation inside the batch. Body is kept raw so
// each handler can decode it into the model matching its resource kind.
type SubRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	URL    string          `json:"url"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Kind classifies the sub-request by URL substring. The request URLs are
// nested ("/openshifts/{id}/openshiftrequests/{id}"), so the request kinds
// have to be probed before the bare shift/open-shift patterns.
func (r SubRequest) Kind() models.ResourceKind {
	switch {
	case strings.Contains(r.URL, "/openshiftrequests/"):
		return models.ResourceOpenShiftRequest
	case strings.Contains(r.URL, "/swapRequests/"):
		return models.ResourceSwapShiftRequest
	case strings.Contains(r.URL, "/openshifts/"):
		return models.ResourceOpenShift
	case strings.Contains(r.URL, "/shifts/"):
		return models.ResourceShift
	}
	return models.ResourceUnknown
}

// ApprovalState is the (state, assignedTo) pair present on request bodies.
type ApprovalState struct {
	State      string `json:"state"`
	AssignedTo string `json:"assignedTo"`
}

// ApprovalState peeks at the body without committing to a full model.
// A nil body yields zero values.
func (r SubRequest) ApprovalState() (ApprovalState, error) {
	if len(r.Body) == 0 {
		return ApprovalState{}, nil
	}
	var st ApprovalState
	if err := json.Unmarshal(r.Body, &st); err != nil {
		return ApprovalState{}, err
	}
	return st, nil
}

func (r SubRequest) HasBody() bool {
	return len(r.Body) != 0 && string(r.Body) != "null"
}

// ResourceID is the entity id addressed by the sub-request URL, i.e. its
// last path segment. Needed for bodyless methods like DELETE.
func (r SubRequest) ResourceID() string {
	trimmed := strings.TrimRight(r.URL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
