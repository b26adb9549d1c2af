package openshiftrequeststore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"wfm-shifts-connector/models"
	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	GetByRowKey(rowKey string) (rec *dbmodels.OpenShiftRequestMapping, err error)
	ListPendingByOpenShiftID(openShiftID, excludeRowKey string) (list []dbmodels.OpenShiftRequestMapping, err error)
	ListPending() (list []dbmodels.OpenShiftRequestMapping, err error)
	Save(rec *dbmodels.OpenShiftRequestMapping) error
	Delete(rowKey string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByRowKey(rowKey string) (rec *dbmodels.OpenShiftRequestMapping, err error) {
	err = i.db.Model(dbmodels.OpenShiftRequestMapping{}).
		Where("row_key = ?", rowKey).
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

// ListPendingByOpenShiftID finds the still-pending competitors for the same
// open shift, so they can be auto-declined once one request wins.
func (i impl) ListPendingByOpenShiftID(openShiftID, excludeRowKey string) (list []dbmodels.OpenShiftRequestMapping, err error) {
	err = i.db.Model(dbmodels.OpenShiftRequestMapping{}).
		Where("open_shift_id = ? AND row_key <> ? AND ui_status = ?", openShiftID, excludeRowKey, models.StatePending).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListPending() (list []dbmodels.OpenShiftRequestMapping, err error) {
	err = i.db.Model(dbmodels.OpenShiftRequestMapping{}).
		Where("ui_status = ? AND wfm_request_id <> ''", models.StatePending).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec *dbmodels.OpenShiftRequestMapping) error {
	existing, err := i.GetByRowKey(rec.RowKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return i.db.
			Save(rec).
			Error
	}
	updMap := map[string]interface{}{
		"PartitionKey": rec.PartitionKey,
		"OpenShiftID":  rec.OpenShiftID,
		"UserID":       rec.UserID,
		"WfmRequestID": rec.WfmRequestID,
		"WfmStatus":    rec.WfmStatus,
		"UIStatus":     rec.UIStatus,
	}
	return i.db.
		Model(&dbmodels.OpenShiftRequestMapping{}).
		Where("id = ?", existing.ID).
		Updates(updMap).
		Error
}

func (i impl) Delete(rowKey string) error {
	return i.db.
		Where("row_key = ?", rowKey).
		Delete(&dbmodels.OpenShiftRequestMapping{}).
		Error
}
