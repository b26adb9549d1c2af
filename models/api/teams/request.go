package teamsapimodels

// OpenShiftRequest is a worker's bid for an open shift.
type OpenShiftRequest struct {
	ID             string `json:"id"`
	ETag           string `json:"eTag"`
	OpenShiftID    string `json:"openShiftId"`
	SenderUserID   string `json:"senderUserId"`
	SenderMessage  string `json:"senderMessage"`
	ManagerMessage string `json:"managerActionMessage"`
	State          string `json:"state"`
	AssignedTo     string `json:"assignedTo"`
	SenderDateTime string `json:"senderDateTime"`
	ManagerUserID  string `json:"managerUserId"`
}

// SwapRequest is a worker-to-worker shift swap.
type SwapRequest struct {
	ID               string `json:"id"`
	ETag             string `json:"eTag"`
	SenderShiftID    string `json:"senderShiftId"`
	RecipientShiftID string `json:"recipientShiftId"`
	SenderUserID     string `json:"senderUserId"`
	RecipientUserID  string `json:"recipientUserId"`
	SenderMessage    string `json:"senderMessage"`
	RecipientMessage string `json:"recipientActionMessage"`
	ManagerMessage   string `json:"managerActionMessage"`
	State            string `json:"state"`
	AssignedTo       string `json:"assignedTo"`
}
