package teamshandler

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"wfm-shifts-connector/lib/secure"
	"wfm-shifts-connector/lib/wfmtime"
	"wfm-shifts-connector/models"
	teamsapimodels "wfm-shifts-connector/models/api/teams"
	wfmapimodels "wfm-shifts-connector/models/api/wfm"
	dbmodels "wfm-shifts-connector/models/db"
)

// processOpenShiftRequests walks the open-shift-request sub-requests and
// dispatches each on its (state, assignedTo) pair.
func (i *impl) processOpenShiftRequests(ctx context.Context, bc *batchContext) ([]teamsapimodels.AckEntry, error) {
	logger := i.getLogger(bc.teamID)
	var out []teamsapimodels.AckEntry

	for _, sub := range bc.batch.Requests {
		if sub.Kind() != models.ResourceOpenShiftRequest || bc.acked[sub.ID] {
			continue
		}
		if !sub.HasBody() {
			continue
		}
		var req teamsapimodels.OpenShiftRequest
		if err := json.Unmarshal(sub.Body, &req); err != nil {
			return nil, errors.Wrap(err, "malformed open shift request body")
		}

		switch {
		case req.State == models.StatePending && req.AssignedTo == models.AssignedToRecipient:
			entry, err := i.submitOpenShiftRequest(ctx, bc, sub, req)
			if err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, entry)

		case req.State == models.StateApproved && req.AssignedTo == models.AssignedToManager:
			entries, err := i.approveOpenShiftRequest(ctx, bc, sub, req)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)

		case req.State == models.StateDeclined && req.AssignedTo == models.AssignedToManager:
			if err := i.updateOpenShiftRequestStatus(req.ID, models.StateDeclined, wfmStatusRefused); err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, NewAck(sub.ID, 200, req.ETag))

		case req.AssignedTo == models.AssignedToSystem:
			// Terminal auto-decline from the WFM side, a competing
			// request won.
			if err := i.updateOpenShiftRequestStatus(req.ID, models.StateDeclined, wfmStatusRefused); err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, NewAck(sub.ID, 200, req.ETag))

		default:
			logger.
				WithField("request_id", req.ID).
				WithField("state", req.State).
				WithField("assigned_to", req.AssignedTo).
				Warn("unexpected open shift request transition, acknowledging without action")
			bc.claim(sub.ID)
			out = append(out, NewAck(sub.ID, 200, req.ETag))
		}
	}
	return out, nil
}

// submitOpenShiftRequest forwards a fresh UI bid for an open shift into the
// WFM system and records the mapping. Exactly one ack comes back: the one
// for the submission itself.
func (i *impl) submitOpenShiftRequest(ctx context.Context, bc *batchContext, sub teamsapimodels.SubRequest, req teamsapimodels.OpenShiftRequest) (teamsapimodels.AckEntry, error) {
	logger := i.getLogger(bc.teamID).WithField("request_id", req.ID)

	user, err := i.userStore.GetByUserID(bc.teamID, req.SenderUserID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	if user == nil {
		logger.WithField("user_id", req.SenderUserID).Warn("sender has no WFM user mapping")
		return NewAckError(sub.ID, 404, errCodeUserNotMapped, "sender is not mapped to a WFM person"), nil
	}
	openShift, err := i.openShiftStore.GetByRowKey(req.OpenShiftID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	if openShift == nil {
		logger.WithField("open_shift_id", req.OpenShiftID).Warn("open shift has no mapping")
		return NewAckError(sub.ID, 404, errCodeEntityNotMapped, "open shift is not mapped to a WFM slot"), nil
	}

	jsession, err := i.session.Get(ctx, bc.endpoint)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	startDate, startTime := i.tz.ToLocalParts(openShift.StartDateTime)
	endDate, endTime := i.tz.ToLocalParts(openShift.EndDateTime)
	resp, err := i.client.SubmitOpenShiftRequest(ctx, bc.endpoint, jsession, wfmapimodels.OpenShiftRequest{
		PersonNumber: user.WfmPersonNumber,
		OrgJobPath:   openShift.WfmOrgJobPath,
		StartDate:    startDate,
		EndDate:      endDate,
		StartTime:    startTime,
		EndTime:      endTime,
		Comment:      req.SenderMessage,
	})
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}

	err = i.openShiftReqStore.Save(&dbmodels.OpenShiftRequestMapping{
		PartitionKey: wfmtime.MonthPartition(i.tz.ToLocal(openShift.StartDateTime)),
		RowKey:       req.ID,
		OpenShiftID:  req.OpenShiftID,
		UserID:       req.SenderUserID,
		WfmRequestID: resp.RequestID,
		WfmStatus:    wfmStatusOffered,
		UIStatus:     models.StatePending,
	})
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	logger.WithField("wfm_request_id", resp.RequestID).Info("open shift request submitted to WFM")
	return NewAck(sub.ID, 200, req.ETag), nil
}

// approveOpenShiftRequest handles the manager-approval delivery. The batch
// carries the winning request, the final shift object it produced and the
// retired open shift; the placeholder shift mapping created when WFM
// approved the request is promoted to a permanent one keyed by the real
// shift id. The permanent record is written before the placeholder is
// removed, so a crash in between leaves a duplicate placeholder rather
// than a lost shift.
func (i *impl) approveOpenShiftRequest(ctx context.Context, bc *batchContext, sub teamsapimodels.SubRequest, req teamsapimodels.OpenShiftRequest) ([]teamsapimodels.AckEntry, error) {
	logger := i.getLogger(bc.teamID).WithField("request_id", req.ID)
	var out []teamsapimodels.AckEntry

	placeholderKey := placeholderPrefix + req.ID
	placeholder, err := i.shiftStore.GetByRowKey(placeholderKey)
	if err != nil {
		return nil, err
	}
	if placeholder == nil {
		// Inherited behavior: the rest of the approval is still valid,
		// so a missing placeholder is not fatal.
		logger.WithField("row_key", placeholderKey).Warn("placeholder shift mapping not found, proceeding without promotion")
	}

	for _, shiftSub := range bc.batch.Requests {
		if shiftSub.Kind() != models.ResourceShift || shiftSub.Method != "POST" || !shiftSub.HasBody() {
			continue
		}
		var shift teamsapimodels.Shift
		if err := json.Unmarshal(shiftSub.Body, &shift); err != nil {
			return nil, errors.Wrap(err, "malformed shift body in approval batch")
		}
		item := shift.SharedShift
		if item == nil {
			item = &teamsapimodels.ShiftItem{}
			if shift.DraftShift != nil {
				item = shift.DraftShift
			}
		}
		if placeholder != nil {
			err = i.shiftStore.Save(&dbmodels.ShiftMapping{
				PartitionKey:    wfmtime.MonthPartition(i.tz.ToLocal(item.StartDateTime)),
				RowKey:          shift.ID,
				UserID:          shift.UserID,
				WfmPersonNumber: placeholder.WfmPersonNumber,
				WfmUniqueHash:   i.hasher.HashUI(item.StartDateTime, item.EndDateTime, hashActivities(item.Activities), shift.UserID),
				ShiftStartDate:  item.StartDateTime,
				ShiftEndDate:    item.EndDateTime,
			})
			if err != nil {
				return nil, err
			}
			if err = i.shiftStore.Delete(placeholderKey); err != nil {
				return nil, err
			}
			logger.WithField("shift_id", shift.ID).Info("placeholder promoted to permanent shift mapping")
		}
		if bc.claim(shiftSub.ID) {
			out = append(out, NewAck(shiftSub.ID, 200, shift.ETag))
		}
	}

	if err = i.updateOpenShiftRequestStatus(req.ID, models.StateApproved, wfmStatusApproved); err != nil {
		return nil, err
	}
	if err = i.openShiftStore.Delete(req.OpenShiftID); err != nil {
		return nil, err
	}

	// Competitors not present in this delivery are still retired: WFM has
	// auto-declined them already, the local mappings just have to follow.
	competitors, err := i.openShiftReqStore.ListPendingByOpenShiftID(req.OpenShiftID, req.ID)
	if err != nil {
		return nil, err
	}
	for _, comp := range competitors {
		comp.UIStatus = models.StateDeclined
		comp.WfmStatus = wfmStatusRefused
		if err = i.openShiftReqStore.Save(&comp); err != nil {
			return nil, err
		}
	}

	for _, osSub := range bc.batch.Requests {
		if osSub.Kind() != models.ResourceOpenShift {
			continue
		}
		if bc.claim(osSub.ID) {
			out = append(out, NewAck(osSub.ID, 200, bodyETag(osSub)))
		}
	}

	bc.claim(sub.ID)
	out = append(out, NewAck(sub.ID, 200, req.ETag))
	return out, nil
}

func (i *impl) updateOpenShiftRequestStatus(rowKey, uiStatus, wfmStatus string) error {
	rec, err := i.openShiftReqStore.GetByRowKey(rowKey)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rec.UIStatus = uiStatus
	rec.WfmStatus = wfmStatus
	return i.openShiftReqStore.Save(rec)
}

func hashActivities(activities []teamsapimodels.Activity) []secure.HashActivity {
	out := make([]secure.HashActivity, 0, len(activities))
	for _, a := range activities {
		out = append(out, secure.HashActivity{
			Name:  a.DisplayName,
			Start: a.StartDateTime,
			End:   a.EndDateTime,
		})
	}
	return out
}
