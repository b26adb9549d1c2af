package dbmodels

import "time"

// ShiftMapping links a scheduler-UI shift to its WFM counterpart.
// RowKey is the UI shift id, or "SHFT_PENDING_{requestID}" while the shift
// only exists as an approved-but-unmaterialized open-shift request.
type ShiftMapping struct {
	BaseModel
	PartitionKey    string    `json:"partition_key" gorm:"index"`
	RowKey          string    `json:"row_key" gorm:"uniqueIndex"`
	UserID          string    `json:"user_id"`
	WfmPersonNumber string    `json:"wfm_person_number"`
	WfmUniqueHash   string    `json:"wfm_unique_hash" gorm:"index"`
	ShiftStartDate  time.Time `json:"shift_start_date"`
	ShiftEndDate    time.Time `json:"shift_end_date"`
}

type OpenShiftMapping struct {
	BaseModel
	PartitionKey  string    `json:"partition_key" gorm:"index"`
	RowKey        string    `json:"row_key" gorm:"uniqueIndex"`
	WfmOrgJobPath string    `json:"wfm_org_job_path"`
	WfmUniqueHash string    `json:"wfm_unique_hash" gorm:"index"`
	SlotCount     int       `json:"slot_count"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
}
