package registrationstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	GetByTeamID(teamID string) (rec *dbmodels.IntegrationRegistration, err error)
	List() (list []dbmodels.IntegrationRegistration, err error)
	Save(rec *dbmodels.IntegrationRegistration) error
	Delete(teamID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByTeamID(teamID string) (rec *dbmodels.IntegrationRegistration, err error) {
	err = i.db.Model(dbmodels.IntegrationRegistration{}).
		Where("team_id = ?", teamID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) List() (list []dbmodels.IntegrationRegistration, err error) {
	err = i.db.Model(dbmodels.IntegrationRegistration{}).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec *dbmodels.IntegrationRegistration) error {
	existing, err := i.GetByTeamID(rec.TeamID)
	if err != nil {
		return err
	}
	if existing == nil {
		return i.db.
			Save(rec).
			Error
	}
	updMap := map[string]interface{}{
		"IntegrationID":    rec.IntegrationID,
		"PassthroughValue": rec.PassthroughValue,
		"SharedSecret":     rec.SharedSecret,
		"WfmEndpoint":      rec.WfmEndpoint,
		"AdminObjectID":    rec.AdminObjectID,
	}
	return i.db.
		Model(&dbmodels.IntegrationRegistration{}).
		Where("id = ?", existing.ID).
		Updates(updMap).
		Error
}

func (i impl) Delete(teamID string) error {
	return i.db.
		Where("team_id = ?", teamID).
		Delete(&dbmodels.IntegrationRegistration{}).
		Error
}
