package swapshiftstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"wfm-shifts-connector/models"
	dbmodels "wfm-shifts-connector/models/db"
)

type Provider interface {
	GetByRowKey(rowKey string) (rec *dbmodels.SwapShiftRequestMapping, err error)
	ListPendingByShiftIDs(shiftIDs []string, excludeRowKey string) (list []dbmodels.SwapShiftRequestMapping, err error)
	Save(rec *dbmodels.SwapShiftRequestMapping) error
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

func (i impl) GetByRowKey(rowKey string) (rec *dbmodels.SwapShiftRequestMapping, err error) {
	err = i.db.Model(dbmodels.SwapShiftRequestMapping{}).
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

// ListPendingByShiftIDs finds other pending swap requests touching any of
// the given shifts. When a swap is approved those competitors lose their
// subject and have to be declined.
func (i impl) ListPendingByShiftIDs(shiftIDs []string, excludeRowKey string) (list []dbmodels.SwapShiftRequestMapping, err error) {
	err = i.db.Model(dbmodels.SwapShiftRequestMapping{}).
		Where("(requestor_shift_id IN ? OR recipient_shift_id IN ?)", shiftIDs, shiftIDs).
		Where("row_key <> ? AND ui_status = ?", excludeRowKey, models.SwapShiftPending).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec *dbmodels.SwapShiftRequestMapping) error {
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
		"PartitionKey":     rec.PartitionKey,
		"RequestorUserID":  rec.RequestorUserID,
		"RecipientUserID":  rec.RecipientUserID,
		"RequestorShiftID": rec.RequestorShiftID,
		"RecipientShiftID": rec.RecipientShiftID,
		"WfmRequestID":     rec.WfmRequestID,
		"WfmStatus":        rec.WfmStatus,
		"UIStatus":         rec.UIStatus,
		"RequestorETag":    rec.RequestorETag,
	}
	return i.db.
		Model(&dbmodels.SwapShiftRequestMapping{}).
		Where("id = ?", existing.ID).
		Updates(updMap).
		Error
}

func (i impl) Delete(rowKey string) error {
	return i.db.
		Where("row_key = ?", rowKey).
		Delete(&dbmodels.SwapShiftRequestMapping{}).
		Error
}
