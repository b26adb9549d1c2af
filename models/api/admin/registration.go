package adminapimodels

import "github.com/pkg/errors"

// RegistrationData is the admin-facing view of an integration registration.
type RegistrationData struct {
	TeamID           string `json:"team_id"`
	IntegrationID    string `json:"integration_id"`
	PassthroughValue string `json:"passthrough_value"`
	SharedSecret     string `json:"shared_secret"`
	WfmEndpoint      string `json:"wfm_endpoint"`
	AdminObjectID    string `json:"admin_object_id"`
}

func (r RegistrationData) Validate() error {
	if r.TeamID == "" {
		return errors.New("team_id is required")
	}
	if r.IntegrationID == "" {
		return errors.New("integration_id is required")
	}
	if len(r.SharedSecret) != 64 {
		return errors.New("shared_secret must be 64 bytes")
	}
	return nil
}

// UserMappingData is one row of the user-mapping import template.
type UserMappingData struct {
	UserID          string `json:"user_id"`
	TeamID          string `json:"team_id"`
	WfmPersonNumber string `json:"wfm_person_number"`
	WfmUserName     string `json:"wfm_user_name"`
}

func (r UserMappingData) Validate() error {
	if r.UserID == "" || r.TeamID == "" {
		return errors.New("user_id and team_id are required")
	}
	if r.WfmPersonNumber == "" {
		return errors.New("wfm_person_number is required")
	}
	return nil
}
