package shiftmappingstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	GetByRowKey(rowKey string) (rec *dbmodels.ShiftMapping, err error)
	GetByHash(partitionKey, hash string) (rec *dbmodels.ShiftMapping, err error)
	List(partitionKeys []string, personNumbers []string) (list []dbmodels.ShiftMapping, err error)
	Save(rec *dbmodels.ShiftMapping) error
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

func (i impl) GetByRowKey(rowKey string) (rec *dbmodels.ShiftMapping, err error) {
	err = i.db.Model(dbmodels.ShiftMapping{}).
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

func (i impl) GetByHash(partitionKey, hash string) (rec *dbmodels.ShiftMapping, err error) {
	err = i.db.Model(dbmodels.ShiftMapping{}).
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

func (i impl) List(partitionKeys []string, personNumbers []string) (list []dbmodels.ShiftMapping, err error) {
	tx := i.db.Model(dbmodels.ShiftMapping{}).
		Where("partition_key IN ?", partitionKeys)
	if len(personNumbers) > 0 {
		tx = tx.Where("wfm_person_number IN ?", personNumbers)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec *dbmodels.ShiftMapping) error {
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
		"PartitionKey":    rec.PartitionKey,
		"UserID":          rec.UserID,
		"WfmPersonNumber": rec.WfmPersonNumber,
		"WfmUniqueHash":   rec.WfmUniqueHash,
		"ShiftStartDate":  rec.ShiftStartDate,
		"ShiftEndDate":    rec.ShiftEndDate,
	}
	return i.db.
		Model(&dbmodels.ShiftMapping{}).
		Where("id = ?", existing.ID).
		Updates(updMap).
		Error
}

func (i impl) Delete(rowKey string) error {
	return i.db.
		Where("row_key = ?", rowKey).
		Delete(&dbmodels.ShiftMapping{}).
		Error
}
