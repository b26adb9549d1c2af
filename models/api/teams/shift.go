package teamsapimodels

import "time"

// Activity is one segment of a shift (a task, a break).
type Activity struct {
	DisplayName   string    `json:"displayName"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	IsPaid        bool      `json:"isPaid"`
}

// ShiftItem carries the shared shift payload fields.
type ShiftItem struct {
	DisplayName   string     `json:"displayName"`
	Notes         string     `json:"notes"`
	StartDateTime time.Time  `json:"startDateTime"`
	EndDateTime   time.Time  `json:"endDateTime"`
	Theme         string     `json:"theme"`
	Activities    []Activity `json:"activities"`
}

// Shift is a scheduler-UI shift object.
type Shift struct {
	ID                string     `json:"id"`
	ETag              string     `json:"eTag"`
	UserID            string     `json:"userId"`
	SchedulingGroupID string     `json:"schedulingGroupId"`
	SharedShift       *ShiftItem `json:"sharedShift"`
	DraftShift        *ShiftItem `json:"draftShift"`
}

// OpenShiftItem extends the shift payload with the open slot count.
type OpenShiftItem struct {
	ShiftItem
	OpenSlotCount int `json:"openSlotCount"`
}

// OpenShift is an unclaimed shift slot published by the WFM side.
type OpenShift struct {
	ID                string         `json:"id"`
	ETag              string         `json:"eTag"`
	SchedulingGroupID string         `json:"schedulingGroupId"`
	SharedOpenShift   *OpenShiftItem `json:"sharedOpenShift"`
	DraftOpenShift    *OpenShiftItem `json:"draftOpenShift"`
}
