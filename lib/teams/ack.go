package teamshandler

import (
	"github.com/google/uuid"

	teamsapimodels "wfm-shifts-connector/models/api/teams"
)

// NewAck builds one acknowledgement entry. The scheduler UI treats a null
// ETag as a transport failure, so an absent tag is replaced with a fresh
// identifier rather than forwarded.
func NewAck(id string, status int, eTag string) teamsapimodels.AckEntry {
	if eTag == "" {
		eTag = uuid.NewString()
	}
	return teamsapimodels.AckEntry{
		ID:     id,
		Status: status,
		Body: teamsapimodels.AckBody{
			ETag: eTag,
		},
	}
}

// NewAckError builds an acknowledgement carrying a per-item error.
func NewAckError(id string, status int, code, message string) teamsapimodels.AckEntry {
	return teamsapimodels.AckEntry{
		ID:     id,
		Status: status,
		Body: teamsapimodels.AckBody{
			Error: &teamsapimodels.AckError{
				Code:    code,
				Message: message,
			},
			ETag: uuid.NewString(),
		},
	}
}

// DeclineAll acknowledges every sub-request in the batch with the same
// error and performs no other work. Used when the sender fails the
// passthrough check.
func DeclineAll(batch teamsapimodels.Batch, status int, code, message string) *teamsapimodels.AckBatch {
	out := &teamsapimodels.AckBatch{
		Responses: make([]teamsapimodels.AckEntry, 0, len(batch.Requests)),
	}
	for _, req := range batch.Requests {
		out.Responses = append(out.Responses, NewAckError(req.ID, status, code, message))
	}
	return out
}
