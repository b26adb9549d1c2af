package teamshandler

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"wfm-shifts-connector/lib/wfmtime"
	"wfm-shifts-connector/models"
	teamsapimodels "wfm-shifts-connector/models/api/teams"
	wfmapimodels "wfm-shifts-connector/models/api/wfm"
	dbmodels "wfm-shifts-connector/models/db"
)

// processSwapRequests walks the swap-shift sub-requests and dispatches
// each on its (state, assignedTo) pair. A DELETE with no body is the
// requester withdrawing the swap.
func (i *impl) processSwapRequests(ctx context.Context, bc *batchContext) ([]teamsapimodels.AckEntry, error) {
	logger := i.getLogger(bc.teamID)
	var out []teamsapimodels.AckEntry

	for _, sub := range bc.batch.Requests {
		if sub.Kind() != models.ResourceSwapShiftRequest || bc.acked[sub.ID] {
			continue
		}

		if sub.Method == "DELETE" && !sub.HasBody() {
			entry, err := i.cancelSwapRequest(bc, sub)
			if err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, entry)
			continue
		}
		if !sub.HasBody() {
			continue
		}

		var req teamsapimodels.SwapRequest
		if err := json.Unmarshal(sub.Body, &req); err != nil {
			return nil, errors.Wrap(err, "malformed swap request body")
		}

		switch {
		case req.State == models.StatePending && req.AssignedTo == models.AssignedToRecipient:
			entry, err := i.submitSwapRequest(ctx, bc, sub, req)
			if err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, entry)

		case req.State == models.StatePending && req.AssignedTo == models.AssignedToManager:
			// The recipient accepted, the swap now waits on the manager.
			entry, err := i.forwardSwapToManager(ctx, bc, sub, req)
			if err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, entry)

		case req.State == models.StateDeclined && req.AssignedTo == models.AssignedToRecipient:
			entry, err := i.declineSwapRequest(ctx, bc, sub, req)
			if err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, entry)

		case req.State == models.StateDeclined && req.AssignedTo == models.AssignedToManager:
			if err := i.updateSwapStatus(req.ID, models.SwapShiftDeclined, wfmStatusRefused); err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, NewAck(sub.ID, 200, req.ETag))

		case req.State == models.StateApproved && req.AssignedTo == models.AssignedToManager:
			entries, err := i.approveSwapRequest(bc, sub, req)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)

		case req.State == models.StateDeclined && req.AssignedTo == models.AssignedToSystem:
			if err := i.updateSwapStatus(req.ID, models.SwapShiftDeclined, wfmStatusRefused); err != nil {
				return nil, err
			}
			bc.claim(sub.ID)
			out = append(out, NewAckError(sub.ID, 200, errCodeSystemDeclined, msgSystemDeclined))

		default:
			logger.
				WithField("request_id", req.ID).
				WithField("state", req.State).
				WithField("assigned_to", req.AssignedTo).
				Warn("unexpected swap request transition, acknowledging without action")
			bc.claim(sub.ID)
			out = append(out, NewAck(sub.ID, 200, req.ETag))
		}
	}
	return out, nil
}

func (i *impl) cancelSwapRequest(bc *batchContext, sub teamsapimodels.SubRequest) (teamsapimodels.AckEntry, error) {
	requestID := sub.ResourceID()
	logger := i.getLogger(bc.teamID).WithField("request_id", requestID)

	rec, err := i.swapStore.GetByRowKey(requestID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	if rec == nil {
		logger.Warn("cancelled swap request has no mapping")
		return NewAck(sub.ID, 200, ""), nil
	}
	rec.UIStatus = models.SwapShiftCancelled
	rec.WfmStatus = wfmStatusRefused
	if err = i.swapStore.Save(rec); err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	logger.Info("swap request cancelled by requester")
	return NewAck(sub.ID, 200, rec.RequestorETag), nil
}

func (i *impl) submitSwapRequest(ctx context.Context, bc *batchContext, sub teamsapimodels.SubRequest, req teamsapimodels.SwapRequest) (teamsapimodels.AckEntry, error) {
	logger := i.getLogger(bc.teamID).WithField("request_id", req.ID)

	requestorShift, err := i.shiftStore.GetByRowKey(req.SenderShiftID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	recipientShift, err := i.shiftStore.GetByRowKey(req.RecipientShiftID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	if requestorShift == nil || recipientShift == nil {
		logger.Warn("swap request references unmapped shifts")
		return NewAckError(sub.ID, 404, errCodeEntityNotMapped, "one of the swapped shifts is not mapped to a WFM shift"), nil
	}

	jsession, err := i.session.Get(ctx, bc.endpoint)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	reqDate, reqStart := i.tz.ToLocalParts(requestorShift.ShiftStartDate)
	_, reqEnd := i.tz.ToLocalParts(requestorShift.ShiftEndDate)
	recDate, recStart := i.tz.ToLocalParts(recipientShift.ShiftStartDate)
	_, recEnd := i.tz.ToLocalParts(recipientShift.ShiftEndDate)
	resp, err := i.client.SubmitSwapShiftRequest(ctx, bc.endpoint, jsession, wfmapimodels.SwapShiftRequest{
		RequestorPersonNumber: requestorShift.WfmPersonNumber,
		RecipientPersonNumber: recipientShift.WfmPersonNumber,
		RequestorShiftDate:    reqDate,
		RecipientShiftDate:    recDate,
		RequestorStartTime:    reqStart,
		RequestorEndTime:      reqEnd,
		RecipientStartTime:    recStart,
		RecipientEndTime:      recEnd,
		Comment:               req.SenderMessage,
	})
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}

	err = i.swapStore.Save(&dbmodels.SwapShiftRequestMapping{
		PartitionKey:     wfmtime.MonthPartition(i.tz.ToLocal(requestorShift.ShiftStartDate)),
		RowKey:           req.ID,
		RequestorUserID:  req.SenderUserID,
		RecipientUserID:  req.RecipientUserID,
		RequestorShiftID: req.SenderShiftID,
		RecipientShiftID: req.RecipientShiftID,
		WfmRequestID:     resp.RequestID,
		WfmStatus:        wfmStatusOffered,
		UIStatus:         models.SwapShiftPending,
		RequestorETag:    req.ETag,
	})
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	logger.WithField("wfm_request_id", resp.RequestID).Info("swap request submitted to WFM")
	return NewAck(sub.ID, 200, req.ETag), nil
}

func (i *impl) forwardSwapToManager(ctx context.Context, bc *batchContext, sub teamsapimodels.SubRequest, req teamsapimodels.SwapRequest) (teamsapimodels.AckEntry, error) {
	rec, err := i.swapStore.GetByRowKey(req.ID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	if rec == nil {
		return NewAckError(sub.ID, 404, errCodeEntityNotMapped, "swap request is not mapped to a WFM request"), nil
	}

	jsession, err := i.session.Get(ctx, bc.endpoint)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	_, err = i.client.UpdateSwapShiftRequestStatus(ctx, bc.endpoint, jsession, wfmapimodels.StatusUpdate{
		RequestID: rec.WfmRequestID,
		Status:    wfmStatusSubmitted,
		Comment:   req.RecipientMessage,
	})
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}

	rec.WfmStatus = wfmStatusSubmitted
	rec.UIStatus = models.SwapShiftSubmitted
	if err = i.swapStore.Save(rec); err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	return NewAck(sub.ID, 200, req.ETag), nil
}

func (i *impl) declineSwapRequest(ctx context.Context, bc *batchContext, sub teamsapimodels.SubRequest, req teamsapimodels.SwapRequest) (teamsapimodels.AckEntry, error) {
	rec, err := i.swapStore.GetByRowKey(req.ID)
	if err != nil {
		return teamsapimodels.AckEntry{}, err
	}
	if rec != nil {
		jsession, err := i.session.Get(ctx, bc.endpoint)
		if err != nil {
			return teamsapimodels.AckEntry{}, err
		}
		_, err = i.client.UpdateSwapShiftRequestStatus(ctx, bc.endpoint, jsession, wfmapimodels.StatusUpdate{
			RequestID: rec.WfmRequestID,
			Status:    wfmStatusRefused,
			Comment:   req.RecipientMessage,
		})
		if err != nil {
			return teamsapimodels.AckEntry{}, err
		}
		rec.WfmStatus = wfmStatusRefused
		rec.UIStatus = models.SwapShiftDeclined
		if err = i.swapStore.Save(rec); err != nil {
			return teamsapimodels.AckEntry{}, err
		}
	}
	return NewAck(sub.ID, 200, req.ETag), nil
}

// approveSwapRequest runs the manager-approval sequence: persist and ack
// the two shifts the swap produced, ack the superseded shifts it deleted,
// ack the swap request with its own ETag, then decline-and-ack every
// competing request the WFM side auto-declined. Any failure aborts the
// rest of the sequence; everything written so far is an upsert keyed by
// stable ids, so the retried delivery converges.
func (i *impl) approveSwapRequest(bc *batchContext, sub teamsapimodels.SubRequest, req teamsapimodels.SwapRequest) ([]teamsapimodels.AckEntry, error) {
	logger := i.getLogger(bc.teamID).WithField("request_id", req.ID)
	var out []teamsapimodels.AckEntry

	for _, shiftSub := range bc.batch.Requests {
		if shiftSub.Kind() != models.ResourceShift || bc.acked[shiftSub.ID] {
			continue
		}
		switch {
		case shiftSub.Method == "POST" && shiftSub.HasBody():
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
			owner, err := i.userStore.GetByUserID(bc.teamID, shift.UserID)
			if err != nil {
				return nil, err
			}
			if owner == nil {
				return nil, errors.Errorf("shift owner %v has no WFM user mapping", shift.UserID)
			}
			err = i.shiftStore.Save(&dbmodels.ShiftMapping{
				PartitionKey:    wfmtime.MonthPartition(i.tz.ToLocal(item.StartDateTime)),
				RowKey:          shift.ID,
				UserID:          shift.UserID,
				WfmPersonNumber: owner.WfmPersonNumber,
				WfmUniqueHash:   i.hasher.HashUI(item.StartDateTime, item.EndDateTime, hashActivities(item.Activities), shift.UserID),
				ShiftStartDate:  item.StartDateTime,
				ShiftEndDate:    item.EndDateTime,
			})
			if err != nil {
				return nil, err
			}
			bc.claim(shiftSub.ID)
			out = append(out, NewAck(shiftSub.ID, 200, shift.ETag))

		case shiftSub.Method == "DELETE":
			if err := i.shiftStore.Delete(shiftSub.ResourceID()); err != nil {
				return nil, err
			}
			bc.claim(shiftSub.ID)
			out = append(out, NewAck(shiftSub.ID, 200, ""))
		}
	}

	rec, err := i.swapStore.GetByRowKey(req.ID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		rec.UIStatus = models.SwapShiftApproved
		rec.WfmStatus = wfmStatusApproved
		if err = i.swapStore.Save(rec); err != nil {
			return nil, err
		}
		// Competing swaps over the same shifts were auto-declined by WFM;
		// retire any local mapping the delivery did not carry.
		competitors, err := i.swapStore.ListPendingByShiftIDs(
			[]string{rec.RequestorShiftID, rec.RecipientShiftID}, rec.RowKey)
		if err != nil {
			return nil, err
		}
		for _, comp := range competitors {
			comp.UIStatus = models.SwapShiftDeclined
			comp.WfmStatus = wfmStatusRefused
			if err = i.swapStore.Save(&comp); err != nil {
				return nil, err
			}
		}
	}
	bc.claim(sub.ID)
	out = append(out, NewAck(sub.ID, 200, req.ETag))
	logger.Info("swap request approved")
	return out, nil
}

func (i *impl) updateSwapStatus(rowKey, uiStatus, wfmStatus string) error {
	rec, err := i.swapStore.GetByRowKey(rowKey)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rec.UIStatus = uiStatus
	rec.WfmStatus = wfmStatus
	return i.swapStore.Save(rec)
}
