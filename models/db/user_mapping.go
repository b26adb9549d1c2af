package dbmodels

// UserMapping pairs a scheduler-UI user with a WFM person number.
type UserMapping struct {
	BaseModel
	UserID          string `json:"user_id" gorm:"index"`
	TeamID          string `json:"team_id" gorm:"index"`
	WfmPersonNumber string `json:"wfm_person_number"`
	WfmUserName     string `json:"wfm_user_name"`
	IsActive        bool   `json:"is_active"`
}

// TeamDepartmentMapping pairs a scheduler-UI team (and its scheduling
// group) with a WFM org job path.
type TeamDepartmentMapping struct {
	BaseModel
	TeamID            string `json:"team_id" gorm:"index"`
	SchedulingGroupID string `json:"scheduling_group_id"`
	WfmOrgJobPath     string `json:"wfm_org_job_path"`
}
