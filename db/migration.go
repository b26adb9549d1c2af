package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "wfm-shifts-connector/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.IntegrationRegistration{}); err != nil {
		return errors.Wrap(err, "migration failed for IntegrationRegistration")
	}
	if err := DB.AutoMigrate(&dbmodels.ShiftMapping{}); err != nil {
		return errors.Wrap(err, "migration failed for ShiftMapping")
	}
	if err := DB.AutoMigrate(&dbmodels.OpenShiftMapping{}); err != nil {
		return errors.Wrap(err, "migration failed for OpenShiftMapping")
	}
	if err := DB.AutoMigrate(&dbmodels.OpenShiftRequestMapping{}); err != nil {
		return errors.Wrap(err, "migration failed for OpenShiftRequestMapping")
	}
	if err := DB.AutoMigrate(&dbmodels.SwapShiftRequestMapping{}); err != nil {
		return errors.Wrap(err, "migration failed for SwapShiftRequestMapping")
	}
	if err := DB.AutoMigrate(&dbmodels.UserMapping{}); err != nil {
		return errors.Wrap(err, "migration failed for UserMapping")
	}
	if err := DB.AutoMigrate(&dbmodels.TeamDepartmentMapping{}); err != nil {
		return errors.Wrap(err, "migration failed for TeamDepartmentMapping")
	}
	log.Info("migrations finished")
	return nil
}
