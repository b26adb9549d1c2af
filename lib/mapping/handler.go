package mappinghandler

import (
	"wfm-shifts-connector/db"
	teammappingstore "wfm-shifts-connector/lib/mapping/team-store"
	usermappingstore "wfm-shifts-connector/lib/mapping/user-store"
	adminapimodels "wfm-shifts-connector/models/api/admin"
	dbmodels "wfm-shifts-connector/models/db"
)

// Provider is the admin-facing maintenance surface for the team and user
// mapping tables. Shift level mappings are owned by the webhook path and
// the sync worker and are not editable here.
type Provider interface {
	SaveTeam(data adminapimodels.TeamMappingData) error
	ListTeams() ([]adminapimodels.TeamMappingData, error)
	DeleteTeam(teamID string) error
	SaveUser(data adminapimodels.UserMappingData) error
	ListUsers(teamID string) ([]adminapimodels.UserMappingData, error)
	DeleteUser(teamID, userID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		teamStore: teammappingstore.NewInstance(db.DB),
		userStore: usermappingstore.NewInstance(db.DB),
	}
}

type impl struct {
	teamStore teammappingstore.Provider
	userStore usermappingstore.Provider
}

func (i impl) SaveTeam(data adminapimodels.TeamMappingData) error {
	return i.teamStore.Save(&dbmodels.TeamDepartmentMapping{
		TeamID:            data.TeamID,
		SchedulingGroupID: data.SchedulingGroupID,
		WfmOrgJobPath:     data.WfmOrgJobPath,
	})
}

func (i impl) ListTeams() ([]adminapimodels.TeamMappingData, error) {
	list, err := i.teamStore.List()
	if err != nil {
		return nil, err
	}
	result := make([]adminapimodels.TeamMappingData, 0, len(list))
	for _, rec := range list {
		result = append(result, adminapimodels.TeamMappingData{
			TeamID:            rec.TeamID,
			SchedulingGroupID: rec.SchedulingGroupID,
			WfmOrgJobPath:     rec.WfmOrgJobPath,
		})
	}
	return result, nil
}

func (i impl) DeleteTeam(teamID string) error {
	return i.teamStore.Delete(teamID)
}

func (i impl) SaveUser(data adminapimodels.UserMappingData) error {
	return i.userStore.Save(&dbmodels.UserMapping{
		UserID:          data.UserID,
		TeamID:          data.TeamID,
		WfmPersonNumber: data.WfmPersonNumber,
		WfmUserName:     data.WfmUserName,
		IsActive:        true,
	})
}

func (i impl) ListUsers(teamID string) ([]adminapimodels.UserMappingData, error) {
	list, err := i.userStore.ListActive(teamID)
	if err != nil {
		return nil, err
	}
	result := make([]adminapimodels.UserMappingData, 0, len(list))
	for _, rec := range list {
		result = append(result, adminapimodels.UserMappingData{
			UserID:          rec.UserID,
			TeamID:          rec.TeamID,
			WfmPersonNumber: rec.WfmPersonNumber,
			WfmUserName:     rec.WfmUserName,
		})
	}
	return result, nil
}

func (i impl) DeleteUser(teamID, userID string) error {
	return i.userStore.Delete(teamID, userID)
}
