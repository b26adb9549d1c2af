package teamsapimodels

// AckError forwards a per-item failure to the scheduler UI.
type AckError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// AckBody is the body of one acknowledgement entry. ETag must never be
// empty: the UI treats a null ETag as a transport failure.
type AckBody struct {
	Error *AckError `json:"error,omitempty"`
	ETag  string    `json:"eTag"`
}

// AckEntry acknowledges one sub-request by id.
type AckEntry struct {
	ID     string  `json:"id"`
	Status int     `json:"status"`
	Body   AckBody `json:"body"`
}

// AckBatch is the webhook response envelope.
type AckBatch struct {
	Responses []AckEntry `json:"responses"`
}
