package dbmodels

// OpenShiftRequestMapping tracks an open-shift request across both systems.
// RowKey is the UI request id; statuses are tracked per system because the
// two sides transition independently during approval.
type OpenShiftRequestMapping struct {
	BaseModel
	PartitionKey string `json:"partition_key" gorm:"index"`
	RowKey       string `json:"row_key" gorm:"uniqueIndex"`
	OpenShiftID  string `json:"open_shift_id" gorm:"index"`
	UserID       string `json:"user_id"`
	WfmRequestID string `json:"wfm_request_id"`
	WfmStatus    string `json:"wfm_status"`
	UIStatus     string `json:"ui_status"`
}

type SwapShiftRequestMapping struct {
	BaseModel
	PartitionKey      string `json:"partition_key" gorm:"index"`
	RowKey            string `json:"row_key" gorm:"uniqueIndex"`
	RequestorUserID   string `json:"requestor_user_id"`
	RecipientUserID   string `json:"recipient_user_id"`
	RequestorShiftID  string `json:"requestor_shift_id"`
	RecipientShiftID  string `json:"recipient_shift_id"`
	WfmRequestID      string `json:"wfm_request_id"`
	WfmStatus         string `json:"wfm_status"`
	UIStatus          string `json:"ui_status"`
	RequestorETag     string `json:"requestor_etag"`
}
