package wfmapimodels

// ScheduleSegment is one activity block inside a WFM shift. Times are
// local wall-clock wire values ("1/02/2006" dates, "3:04 PM" clocks).
type ScheduleSegment struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
}

// ScheduleShift is one assigned shift as the WFM schedule endpoint
// returns it.
type ScheduleShift struct {
	PersonNumber string            `json:"person_number"`
	OrgJobPath   string            `json:"org_job_path"`
	StartDate    string            `json:"start_date"`
	StartTime    string            `json:"start_time"`
	EndDate      string            `json:"end_date"`
	EndTime      string            `json:"end_time"`
	Segments     []ScheduleSegment `json:"segments"`
	Notes        string            `json:"notes,omitempty"`
}

// ScheduleOpenShift is an unassigned shift slot published on a WFM org job.
type ScheduleOpenShift struct {
	OrgJobPath string            `json:"org_job_path"`
	StartDate  string            `json:"start_date"`
	StartTime  string            `json:"start_time"`
	EndDate    string            `json:"end_date"`
	EndTime    string            `json:"end_time"`
	Segments   []ScheduleSegment `json:"segments"`
	SlotCount  int               `json:"slot_count"`
}

type ScheduleResponse struct {
	Shifts []ScheduleShift `json:"shifts"`
}

type OpenShiftScheduleResponse struct {
	OpenShifts []ScheduleOpenShift `json:"open_shifts"`
}
