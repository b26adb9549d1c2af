package adminapimodels

import "github.com/pkg/errors"

// TeamMappingData pairs a scheduler-UI team with a WFM org job path.
type TeamMappingData struct {
	TeamID            string `json:"team_id"`
	SchedulingGroupID string `json:"scheduling_group_id"`
	WfmOrgJobPath     string `json:"wfm_org_job_path"`
}

func (r TeamMappingData) Validate() error {
	if r.TeamID == "" {
		return errors.New("team_id is required")
	}
	if r.WfmOrgJobPath == "" {
		return errors.New("wfm_org_job_path is required")
	}
	return nil
}
