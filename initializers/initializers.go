package initializers

import (
	"context"

	"wfm-shifts-connector/config"
	"wfm-shifts-connector/fiberlog"
	filestorage "wfm-shifts-connector/lib/file-storage"
	mappinghandler "wfm-shifts-connector/lib/mapping"
	"wfm-shifts-connector/lib/notify"
	registrationhandler "wfm-shifts-connector/lib/registration"
	syncworker "wfm-shifts-connector/lib/sync"
	teamshandler "wfm-shifts-connector/lib/teams"
	usermaphandler "wfm-shifts-connector/lib/usermap"
	wfmclient "wfm-shifts-connector/lib/wfm/client"
	wfmsession "wfm-shifts-connector/lib/wfm/session"
	"wfm-shifts-connector/lib/wfmtime"
	s3client "wfm-shifts-connector/s3"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()

	tz, err := wfmtime.New(config.Conf.Wfm.TimeZone)
	if err != nil {
		panic(err.Error())
	}

	filestorage.NewHandler(s3client.Client)
	notify.NewHandler()
	wfmclient.NewProvider()
	wfmsession.NewHandler()
	registrationhandler.NewHandler()
	mappinghandler.NewHandler()
	usermaphandler.NewHandler()
	teamshandler.NewHandler(tz)

	go initWorkers(ctx, tz)
}

func initWorkers(ctx context.Context, tz *wfmtime.Normalizer) {
	// WFM polling reconciliation task
	syncworker.StartWorker(ctx, tz)
}
