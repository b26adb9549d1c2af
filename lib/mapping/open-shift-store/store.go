package openshiftmappingstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	GetByRowKey(rowKey string) (rec *dbmodels.OpenShiftMapping, err error)
	GetByHash(partitionKey, hash string) (rec *dbmodels.OpenShiftMapping, err error)
	List(partitionKeys []string, orgJobPath string) (list []dbmodels.OpenShiftMapping, err error)
	Save(rec *dbmodels.OpenShiftMapping) error
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

func (i impl) GetByRowKey(rowKey string) (rec *dbmodels.OpenShiftMapping, err error) {
	err = i.db.Model(dbmodels.OpenShiftMapping{}).
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

func (i impl) GetByHash(partitionKey, hash string) (rec *dbmodels.OpenShiftMapping, err error) {
	err = i.db.Model(dbmodels.OpenShiftMapping{}).
		Where("partition_key = ? AND wfm_unique_hash = ?", partitionKey, hash).
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

func (i impl) List(partitionKeys []string, orgJobPath string) (list []dbmodels.OpenShiftMapping, err error) {
	tx := i.db.Model(dbmodels.OpenShiftMapping{}).
		Where("partition_key IN ?", partitionKeys)
	if orgJobPath != "" {
		tx = tx.Where("wfm_org_job_path = ?", orgJobPath)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec *dbmodels.OpenShiftMapping) error {
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
		"PartitionKey":  rec.PartitionKey,
		"WfmOrgJobPath": rec.WfmOrgJobPath,
		"WfmUniqueHash": rec.WfmUniqueHash,
		"SlotCount":     rec.SlotCount,
		"StartDateTime": rec.StartDateTime,
		"EndDateTime":   rec.EndDateTime,
	}
	return i.db.
		Model(&dbmodels.OpenShiftMapping{}).
		Where("id = ?", existing.ID).
		Updates(updMap).
		Error
}

func (i impl) Delete(rowKey string) error {
	return i.db.
		Where("row_key = ?", rowKey).
		Delete(&dbmodels.OpenShiftMapping{}).
		Error
}
