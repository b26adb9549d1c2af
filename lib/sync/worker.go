package syncworker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/config"
	openshiftrequeststore "wfm-shifts-connector/lib/mapping/open-shift-request-store"
	openshiftmappingstore "wfm-shifts-connector/lib/mapping/open-shift-store"
	shiftmappingstore "wfm-shifts-connector/lib/mapping/shift-store"
	teammappingstore "wfm-shifts-connector/lib/mapping/team-store"
	usermappingstore "wfm-shifts-connector/lib/mapping/user-store"
	"wfm-shifts-connector/lib/notify"
	registrationstore "wfm-shifts-connector/lib/registration/store"
	"wfm-shifts-connector/lib/secure"
	baseworker "wfm-shifts-connector/lib/utils/base-worker"
	"wfm-shifts-connector/lib/utils/helpers"
	wfmclient "wfm-shifts-connector/lib/wfm/client"
	wfmsession "wfm-shifts-connector/lib/wfm/session"
	"wfm-shifts-connector/lib/wfmtime"
	"wfm-shifts-connector/models"
	wfmapimodels "wfm-shifts-connector/models/api/wfm"
	dbmodels "wfm-shifts-connector/models/db"

	"wfm-shifts-connector/db"
)

const (
	placeholderPrefix     = "SHFT_PENDING_"
	openShiftRowKeyPrefix = "OS_"
)

func segmentActivities(tz *wfmtime.Normalizer, segments []wfmapimodels.ScheduleSegment) []secure.HashActivity {
	out := make([]secure.HashActivity, 0, len(segments))
	for _, seg := range segments {
		start, err := tz.ToUTC(seg.StartDate, seg.StartTime, models.DurationHours)
		if err != nil {
			continue
		}
		end, err := tz.ToUTC(seg.EndDate, seg.EndTime, models.DurationHours)
		if err != nil {
			continue
		}
		out = append(out, secure.HashActivity{Name: seg.Name, Start: start, End: end})
	}
	return out
}

// The polling worker drives the WFM→UI direction: the webhook only tells
// us what changed in the scheduler UI, so WFM-side changes (published open
// shifts, manager approvals made directly in WFM) are picked up here.
// Each team is reconciled as one task on a single-consumer queue.

type task struct {
	teamID string
}

type workerImpl struct {
	*baseworker.BaseImpl
	queue chan task

	client        wfmclient.Provider
	session       wfmsession.Provider
	regStore      registrationstore.Provider
	teamStore     teammappingstore.Provider
	userStore     usermappingstore.Provider
	shiftStore    shiftmappingstore.Provider
	openShifts    openshiftmappingstore.Provider
	openShiftReqs openshiftrequeststore.Provider
	tz            *wfmtime.Normalizer
	hasher        *secure.Hasher
}

func StartWorker(ctx context.Context, tz *wfmtime.Normalizer) {
	interval := time.Duration(config.Conf.Sync.PollMinutes) * time.Minute
	w := workerImpl{
		BaseImpl:      baseworker.NewInstance("wfm_schedule_sync", time.Minute, interval),
		queue:         make(chan task, 64),
		client:        wfmclient.Instance,
		session:       wfmsession.Instance,
		regStore:      registrationstore.NewInstance(db.DB),
		teamStore:     teammappingstore.NewInstance(db.DB),
		userStore:     usermappingstore.NewInstance(db.DB),
		shiftStore:    shiftmappingstore.NewInstance(db.DB),
		openShifts:    openshiftmappingstore.NewInstance(db.DB),
		openShiftReqs: openshiftrequeststore.NewInstance(db.DB),
		tz:            tz,
		hasher:        secure.NewHasher(tz),
	}
	go w.consume(ctx)
	go w.Run(ctx, w.enqueueAll)
}

// enqueueAll schedules one reconcile task per registered team.
func (w workerImpl) enqueueAll(ctx context.Context) {
	logger := w.GetLogger()
	regs, err := w.regStore.List()
	if err != nil {
		logger.WithError(err).Error("failed to list integration registrations")
		return
	}
	for _, reg := range regs {
		if helpers.IsContextDone(ctx) {
			return
		}
		select {
		case w.queue <- task{teamID: reg.TeamID}:
		default:
			logger.WithField("team_id", reg.TeamID).Warn("sync queue is full, skipping team this round")
		}
	}
}

func (w workerImpl) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			if err := w.reconcile(ctx, t.teamID); err != nil {
				w.GetLogger().
					WithError(err).
					WithField("team_id", t.teamID).
					Error("team reconcile failed")
				notify.Instance.SyncFailure(t.teamID, err)
			}
		}
	}
}

func (w workerImpl) reconcile(ctx context.Context, teamID string) error {
	logger := w.GetLogger().WithField("team_id", teamID)

	reg, err := w.regStore.GetByTeamID(teamID)
	if err != nil {
		return err
	}
	if reg == nil {
		logger.Warn("team has no registration, skipping")
		return nil
	}
	team, err := w.teamStore.GetByTeamID(teamID)
	if err != nil {
		return err
	}
	if team == nil {
		logger.Warn("team has no department mapping, skipping")
		return nil
	}

	jsession, err := w.session.Get(ctx, reg.WfmEndpoint)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -config.Conf.Sync.FromPreviousDays)
	to := now.AddDate(0, 0, config.Conf.Sync.ToNextDays)
	fromDate, _ := w.tz.ToLocalParts(from)
	toDate, _ := w.tz.ToLocalParts(to)

	if err = w.publishOpenShifts(ctx, reg.WfmEndpoint, jsession, team.WfmOrgJobPath, fromDate, toDate); err != nil {
		return err
	}
	if err = w.promoteApprovedRequests(ctx, teamID, reg.WfmEndpoint, jsession); err != nil {
		return err
	}
	return w.reportShiftDrift(ctx, reg.WfmEndpoint, jsession, team.WfmOrgJobPath, fromDate, toDate, logger)
}

// publishOpenShifts mirrors WFM open shift slots into the mapping store so
// the webhook path can resolve a UI bid back to the WFM slot it targets.
func (w workerImpl) publishOpenShifts(ctx context.Context, endpoint, jsession, orgJobPath, fromDate, toDate string) error {
	openShifts, err := w.client.FetchOpenShifts(ctx, endpoint, jsession, orgJobPath, fromDate, toDate)
	if err != nil {
		return err
	}
	for _, os := range openShifts {
		if helpers.IsContextDone(ctx) {
			return ctx.Err()
		}
		start, err := w.tz.ToUTC(os.StartDate, os.StartTime, models.DurationHours)
		if err != nil {
			return err
		}
		end, err := w.tz.ToUTC(os.EndDate, os.EndTime, models.DurationHours)
		if err != nil {
			return err
		}
		hash := w.hasher.Hash(start, end, segmentActivities(w.tz, os.Segments), "", "")
		partition := wfmtime.MonthPartition(w.tz.ToLocal(start))

		existing, err := w.openShifts.GetByHash(partition, hash)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		err = w.openShifts.Save(&dbmodels.OpenShiftMapping{
			PartitionKey:  partition,
			RowKey:        openShiftRowKeyPrefix + hash,
			WfmOrgJobPath: orgJobPath,
			WfmUniqueHash: hash,
			SlotCount:     os.SlotCount,
			StartDateTime: start,
			EndDateTime:   end,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// promoteApprovedRequests creates the placeholder shift mapping for every
// pending open shift request WFM has approved since the last round. The
// webhook approval delivery later promotes the placeholder to a permanent
// shift mapping.
func (w workerImpl) promoteApprovedRequests(ctx context.Context, teamID, endpoint, jsession string) error {
	logger := w.GetLogger().WithField("team_id", teamID)

	pending, err := w.openShiftReqs.ListPending()
	if err != nil {
		return err
	}
	for _, rec := range pending {
		if helpers.IsContextDone(ctx) {
			return ctx.Err()
		}
		status, err := w.client.GetOpenShiftRequestStatus(ctx, endpoint, jsession, rec.WfmRequestID)
		if err != nil {
			return err
		}
		if status.Status != "Approved" {
			continue
		}
		user, err := w.userStore.GetByUserID(teamID, rec.UserID)
		if err != nil {
			return err
		}
		personNumber := ""
		if user != nil {
			personNumber = user.WfmPersonNumber
		}
		err = w.shiftStore.Save(&dbmodels.ShiftMapping{
			PartitionKey:    rec.PartitionKey,
			RowKey:          placeholderPrefix + rec.RowKey,
			UserID:          rec.UserID,
			WfmPersonNumber: personNumber,
		})
		if err != nil {
			return err
		}
		rec.WfmStatus = status.Status
		if err = w.openShiftReqs.Save(&rec); err != nil {
			return err
		}
		logger.
			WithField("request_id", rec.RowKey).
			Info("WFM approved the open shift request, placeholder mapping created")
	}
	return nil
}

// reportShiftDrift flags WFM shifts that have no mapping on record. The
// scheduler-platform write path is owned by the UI side, so drift is
// surfaced in the logs rather than repaired here.
func (w workerImpl) reportShiftDrift(ctx context.Context, endpoint, jsession, orgJobPath, fromDate, toDate string, logger *log.Entry) error {
	shifts, err := w.client.FetchShifts(ctx, endpoint, jsession, orgJobPath, fromDate, toDate)
	if err != nil {
		return err
	}
	drifted := 0
	for _, sh := range shifts {
		if helpers.IsContextDone(ctx) {
			return ctx.Err()
		}
		start, err := w.tz.ToUTC(sh.StartDate, sh.StartTime, models.DurationHours)
		if err != nil {
			return err
		}
		end, err := w.tz.ToUTC(sh.EndDate, sh.EndTime, models.DurationHours)
		if err != nil {
			return err
		}
		hash := w.hasher.Hash(start, end, segmentActivities(w.tz, sh.Segments), sh.Notes, sh.PersonNumber)
		partition := wfmtime.MonthPartition(w.tz.ToLocal(start))

		existing, err := w.shiftStore.GetByHash(partition, hash)
		if err != nil {
			return err
		}
		if existing == nil {
			drifted++
		}
	}
	if drifted > 0 {
		logger.WithField("unmapped_shifts", drifted).Warn("WFM shifts without a scheduler mapping detected")
	}
	return nil
}
