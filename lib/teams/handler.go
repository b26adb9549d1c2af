package teamshandler

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/db"
	openshiftrequeststore "wfm-shifts-connector/lib/mapping/open-shift-request-store"
	openshiftmappingstore "wfm-shifts-connector/lib/mapping/open-shift-store"
	shiftmappingstore "wfm-shifts-connector/lib/mapping/shift-store"
	swapshiftstore "wfm-shifts-connector/lib/mapping/swap-shift-store"
	usermappingstore "wfm-shifts-connector/lib/mapping/user-store"
	"wfm-shifts-connector/lib/secure"
	wfmclient "wfm-shifts-connector/lib/wfm/client"
	wfmsession "wfm-shifts-connector/lib/wfm/session"
	"wfm-shifts-connector/lib/wfmtime"
	"wfm-shifts-connector/models"
	teamsapimodels "wfm-shifts-connector/models/api/teams"
)

type Provider interface {
	ProcessBatch(ctx context.Context, teamID, wfmEndpoint string, authentic bool, batch teamsapimodels.Batch) (*teamsapimodels.AckBatch, error)
}

var Instance Provider

func NewHandler(tz *wfmtime.Normalizer) {
	Instance = &impl{
		client:            wfmclient.Instance,
		session:           wfmsession.Instance,
		shiftStore:        shiftmappingstore.NewInstance(db.DB),
		openShiftStore:    openshiftmappingstore.NewInstance(db.DB),
		openShiftReqStore: openshiftrequeststore.NewInstance(db.DB),
		swapStore:         swapshiftstore.NewInstance(db.DB),
		userStore:         usermappingstore.NewInstance(db.DB),
		tz:                tz,
		hasher:            secure.NewHasher(tz),
	}
}

type impl struct {
	client            wfmclient.Provider
	session           wfmsession.Provider
	shiftStore        shiftmappingstore.Provider
	openShiftStore    openshiftmappingstore.Provider
	openShiftReqStore openshiftrequeststore.Provider
	swapStore         swapshiftstore.Provider
	userStore         usermappingstore.Provider
	tz                *wfmtime.Normalizer
	hasher            *secure.Hasher
}

const (
	placeholderPrefix = "SHFT_PENDING_"

	wfmStatusOffered   = "Offered"
	wfmStatusSubmitted = "Submitted"
	wfmStatusApproved  = "Approved"
	wfmStatusRefused   = "Refused"

	errCodeForbidden       = "SenderNotVerified"
	errCodeUserNotMapped   = "UserMappingNotFound"
	errCodeEntityNotMapped = "MappingNotFound"
	errCodeSystemDeclined  = "SystemDeclined"

	msgSenderNotVerified = "sender could not be verified as the registered workforce integration"
	msgSystemDeclined    = "request was declined because a competing request was approved"
)

func (i *impl) getLogger(teamID string) *log.Entry {
	logger := log.WithField("integration", "TeamsShifts")
	if teamID != "" {
		logger = logger.WithField("team_id", teamID)
	}
	return logger
}

// batchContext carries the per-call inputs shared by every handler along
// with the set of already-acknowledged sub-request ids, so each input id
// lands in the output exactly once.
type batchContext struct {
	teamID   string
	endpoint string
	batch    teamsapimodels.Batch
	acked    map[string]bool
}

func (bc *batchContext) claim(id string) bool {
	if bc.acked[id] {
		return false
	}
	bc.acked[id] = true
	return true
}

// ProcessBatch classifies every sub-request by resource kind and routes
// the request groups to their state machines. Sub-requests nobody claims
// (plain shift or open-shift echoes) are acknowledged with success, since
// the WFM system stays the sole source of truth for those objects.
//
// A returned error means a downstream collaborator failed mid-sequence;
// no acknowledgement batch is produced and the caller is expected to let
// the scheduler UI retry the whole delivery.
func (i *impl) ProcessBatch(ctx context.Context, teamID, wfmEndpoint string, authentic bool, batch teamsapimodels.Batch) (*teamsapimodels.AckBatch, error) {
	logger := i.getLogger(teamID)

	if !authentic && containsManagerDecision(batch) {
		logger.Warn("passthrough check failed on a manager decision, declining the whole batch")
		return DeclineAll(batch, 400, errCodeForbidden, msgSenderNotVerified), nil
	}

	bc := &batchContext{
		teamID:   teamID,
		endpoint: wfmEndpoint,
		batch:    batch,
		acked:    map[string]bool{},
	}
	out := &teamsapimodels.AckBatch{}

	hasKind := map[models.ResourceKind]bool{}
	for _, sub := range batch.Requests {
		hasKind[sub.Kind()] = true
	}

	if hasKind[models.ResourceOpenShiftRequest] {
		entries, err := i.processOpenShiftRequests(ctx, bc)
		if err != nil {
			return nil, err
		}
		out.Responses = append(out.Responses, entries...)
	}
	if hasKind[models.ResourceSwapShiftRequest] {
		entries, err := i.processSwapRequests(ctx, bc)
		if err != nil {
			return nil, err
		}
		out.Responses = append(out.Responses, entries...)
	}

	for _, sub := range batch.Requests {
		if !bc.claim(sub.ID) {
			continue
		}
		out.Responses = append(out.Responses, NewAck(sub.ID, 200, bodyETag(sub)))
	}
	return out, nil
}

// containsManagerDecision reports whether any request sub-request carries a
// manager approval or decline. Those transitions mutate mapping state, so
// they are the ones gated on sender authenticity.
func containsManagerDecision(batch teamsapimodels.Batch) bool {
	for _, sub := range batch.Requests {
		kind := sub.Kind()
		if kind != models.ResourceOpenShiftRequest && kind != models.ResourceSwapShiftRequest {
			continue
		}
		st, err := sub.ApprovalState()
		if err != nil {
			continue
		}
		if st.AssignedTo == models.AssignedToManager &&
			(st.State == models.StateApproved || st.State == models.StateDeclined) {
			return true
		}
	}
	return false
}

// bodyETag pulls the eTag out of an arbitrary sub-request body, if any.
func bodyETag(sub teamsapimodels.SubRequest) string {
	if !sub.HasBody() {
		return ""
	}
	var probe struct {
		ETag string `json:"eTag"`
	}
	if err := json.Unmarshal(sub.Body, &probe); err != nil {
		return ""
	}
	return probe.ETag
}
