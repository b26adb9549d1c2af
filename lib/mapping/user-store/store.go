package usermappingstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	GetByUserID(teamID, userID string) (rec *dbmodels.UserMapping, err error)
	GetByPersonNumber(teamID, personNumber string) (rec *dbmodels.UserMapping, err error)
	ListActive(teamID string) (list []dbmodels.UserMapping, err error)
	Save(rec *dbmodels.UserMapping) error
	Delete(teamID, userID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByUserID(teamID, userID string) (rec *dbmodels.UserMapping, err error) {
	err = i.db.Model(dbmodels.UserMapping{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
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

func (i impl) GetByPersonNumber(teamID, personNumber string) (rec *dbmodels.UserMapping, err error) {
	err = i.db.Model(dbmodels.UserMapping{}).
		Where("team_id = ? AND wfm_person_number = ?", teamID, personNumber).
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

func (i impl) ListActive(teamID string) (list []dbmodels.UserMapping, err error) {
	err = i.db.Model(dbmodels.UserMapping{}).
		Where("team_id = ? AND is_active", teamID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec *dbmodels.UserMapping) error {
	existing, err := i.GetByUserID(rec.TeamID, rec.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return i.db.
			Save(rec).
			Error
	}
	updMap := map[string]interface{}{
		"WfmPersonNumber": rec.WfmPersonNumber,
		"WfmUserName":     rec.WfmUserName,
		"IsActive":        rec.IsActive,
	}
	return i.db.
		Model(&dbmodels.UserMapping{}).
		Where("id = ?", existing.ID).
		Updates(updMap).
		Error
}

func (i impl) Delete(teamID, userID string) error {
	return i.db.
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&dbmodels.UserMapping{}).
		Error
}
