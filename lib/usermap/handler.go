package usermaphandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"wfm-shifts-connector/db"
	filestorage "wfm-shifts-connector/lib/file-storage"
	usermappingstore "wfm-shifts-connector/lib/mapping/user-store"
	adminapimodels "wfm-shifts-connector/models/api/admin"
	dbmodels "wfm-shifts-connector/models/db"
)

// Provider moves user mappings in and out of XLSX workbooks: tenant
// admins maintain the UI-user to WFM-person pairing in a spreadsheet.
type Provider interface {
	Export(ctx context.Context, teamID string) (*bytes.Buffer, error)
	Import(ctx context.Context, teamID string, file []byte) (imported int, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		userStore: usermappingstore.NewInstance(db.DB),
		storage:   filestorage.Instance,
	}
}

type impl struct {
	userStore usermappingstore.Provider
	storage   filestorage.Provider
}

const sheetName = "Sheet1"

var mappingHeaders = []string{"Scheduler user id", "WFM person number", "WFM user name"}

func (i impl) Export(ctx context.Context, teamID string) (*bytes.Buffer, error) {
	list, err := i.userStore.ListActive(teamID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close workbook")
		}
	}()

	row, err := writeHeader(f, sheetName, 0, mappingHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write workbook header")
	}
	for _, item := range list {
		row++
		if err = writeColumn(f, sheetName, 1, row, item.UserID); err != nil {
			return nil, err
		}
		if err = writeColumn(f, sheetName, 2, row, item.WfmPersonNumber); err != nil {
			return nil, err
		}
		if err = writeColumn(f, sheetName, 3, row, item.WfmUserName); err != nil {
			return nil, err
		}
	}
	f.SetSheetName(sheetName, "User mappings")

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	if i.storage != nil {
		name := fmt.Sprintf("user-mappings-%v.xlsx", time.Now().UTC().Format("2006-01-02"))
		if err = i.storage.UploadExport(ctx, teamID, name, out.Bytes()); err != nil {
			log.WithError(err).
				WithField("team_id", teamID).
				Warn("failed to archive export in object storage")
		}
	}
	return out, nil
}

func (i impl) Import(ctx context.Context, teamID string, file []byte) (int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return 0, errors.Wrap(err, "failed to open workbook")
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close workbook")
		}
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, errors.Wrap(err, "failed to read workbook rows")
	}

	imported := 0
	for idx, row := range rows {
		if idx == 0 {
			// header row
			continue
		}
		data := adminapimodels.UserMappingData{TeamID: teamID}
		if len(row) > 0 {
			data.UserID = row[0]
		}
		if len(row) > 1 {
			data.WfmPersonNumber = row[1]
		}
		if len(row) > 2 {
			data.WfmUserName = row[2]
		}
		if data.UserID == "" && data.WfmPersonNumber == "" {
			continue
		}
		if err = data.Validate(); err != nil {
			return imported, errors.Wrapf(err, "invalid mapping on row %v", idx+1)
		}
		err = i.userStore.Save(&dbmodels.UserMapping{
			UserID:          data.UserID,
			TeamID:          teamID,
			WfmPersonNumber: data.WfmPersonNumber,
			WfmUserName:     data.WfmUserName,
			IsActive:        true,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
