package wfmapimodels

// OpenShiftRequest submits a worker's bid for an open shift slot.
type OpenShiftRequest struct {
	PersonNumber string `json:"person_number"`
	OrgJobPath   string `json:"org_job_path"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Comment      string `json:"comment,omitempty"`
}

// SwapShiftRequest submits or advances a shift swap between two workers.
type SwapShiftRequest struct {
	RequestorPersonNumber string `json:"requestor_person_number"`
	RecipientPersonNumber string `json:"recipient_person_number"`
	RequestorShiftDate    string `json:"requestor_shift_date"`
	RecipientShiftDate    string `json:"recipient_shift_date"`
	RequestorStartTime    string `json:"requestor_start_time"`
	RequestorEndTime      string `json:"requestor_end_time"`
	RecipientStartTime    string `json:"recipient_start_time"`
	RecipientEndTime      string `json:"recipient_end_time"`
	Comment               string `json:"comment,omitempty"`
}

// StatusUpdate moves an existing WFM request into a new state
// (submitted, approved, refused).
type StatusUpdate struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Comment   string `json:"comment,omitempty"`
}

// RequestResponse is the WFM reply to a request submission or update.
type RequestResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Message   string `json:"message,omitempty"`
}
