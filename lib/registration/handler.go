package registrationhandler

import (
	"github.com/pkg/errors"

	"wfm-shifts-connector/db"
	teammappingstore "wfm-shifts-connector/lib/mapping/team-store"
	usermappingstore "wfm-shifts-connector/lib/mapping/user-store"
	registrationstore "wfm-shifts-connector/lib/registration/store"
	adminapimodels "wfm-shifts-connector/models/api/admin"
	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	Save(data adminapimodels.RegistrationData) error
	Get(teamID string) (*adminapimodels.RegistrationData, error)
	List() ([]adminapimodels.RegistrationData, error)
	Delete(teamID string) error
	Credentials(teamID string) (*dbmodels.IntegrationRegistration, error)
	CheckSetup(teamID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:     registrationstore.NewInstance(db.DB),
		teamStore: teammappingstore.NewInstance(db.DB),
		userStore: usermappingstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     registrationstore.Provider
	teamStore teammappingstore.Provider
	userStore usermappingstore.Provider
}

func (i impl) Save(data adminapimodels.RegistrationData) error {
	rec := dbmodels.IntegrationRegistration{
		TeamID:           data.TeamID,
		IntegrationID:    data.IntegrationID,
		PassthroughValue: data.PassthroughValue,
		SharedSecret:     data.SharedSecret,
		WfmEndpoint:      data.WfmEndpoint,
		AdminObjectID:    data.AdminObjectID,
	}
	return i.store.Save(&rec)
}

func (i impl) Get(teamID string) (*adminapimodels.RegistrationData, error) {
	rec, err := i.store.GetByTeamID(teamID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	data := toAPIModel(*rec)
	return &data, nil
}

func (i impl) List() ([]adminapimodels.RegistrationData, error) {
	list, err := i.store.List()
	if err != nil {
		return nil, err
	}
	result := make([]adminapimodels.RegistrationData, 0, len(list))
	for _, rec := range list {
		result = append(result, toAPIModel(rec))
	}
	return result, nil
}

func (i impl) Delete(teamID string) error {
	return i.store.Delete(teamID)
}

func (i impl) Credentials(teamID string) (*dbmodels.IntegrationRegistration, error) {
	return i.store.GetByTeamID(teamID)
}

// CheckSetup verifies that everything the webhook path needs for the team
// is in place. A nil result means the connector is ready to serve it.
func (i impl) CheckSetup(teamID string) error {
	reg, err := i.store.GetByTeamID(teamID)
	if err != nil {
		return err
	}
	if reg == nil {
		return errors.New("integration registration is missing")
	}
	team, err := i.teamStore.GetByTeamID(teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return errors.New("team to department mapping is missing")
	}
	users, err := i.userStore.ListActive(teamID)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return errors.New("no active user mappings")
	}
	return nil
}

func toAPIModel(rec dbmodels.IntegrationRegistration) adminapimodels.RegistrationData {
	return adminapimodels.RegistrationData{
		TeamID:           rec.TeamID,
		IntegrationID:    rec.IntegrationID,
		PassthroughValue: rec.PassthroughValue,
		WfmEndpoint:      rec.WfmEndpoint,
		AdminObjectID:    rec.AdminObjectID,
	}
}
