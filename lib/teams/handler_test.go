package teamshandler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wfm-shifts-connector/lib/secure"
	"wfm-shifts-connector/lib/wfmtime"
	"wfm-shifts-connector/models"
	teamsapimodels "wfm-shifts-connector/models/api/teams"
	wfmapimodels "wfm-shifts-connector/models/api/wfm"
	dbmodels "wfm-shifts-connector/models/db"
)

// ---- in-memory collaborators ----

type fakeShiftStore struct {
	recs      map[string]*dbmodels.ShiftMapping
	mutations int
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{recs: map[string]*dbmodels.ShiftMapping{}}
}

func (f *fakeShiftStore) GetByRowKey(rowKey string) (*dbmodels.ShiftMapping, error) {
	if rec, ok := f.recs[rowKey]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeShiftStore) GetByHash(partitionKey, hash string) (*dbmodels.ShiftMapping, error) {
	for _, rec := range f.recs {
		if rec.PartitionKey == partitionKey && rec.WfmUniqueHash == hash {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftStore) List(partitionKeys []string, personNumbers []string) ([]dbmodels.ShiftMapping, error) {
	var out []dbmodels.ShiftMapping
	for _, rec := range f.recs {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeShiftStore) Save(rec *dbmodels.ShiftMapping) error {
	f.mutations++
	cp := *rec
	f.recs[rec.RowKey] = &cp
	return nil
}

func (f *fakeShiftStore) Delete(rowKey string) error {
	f.mutations++
	delete(f.recs, rowKey)
	return nil
}

type fakeOpenShiftStore struct {
	recs      map[string]*dbmodels.OpenShiftMapping
	mutations int
}

func newFakeOpenShiftStore() *fakeOpenShiftStore {
	return &fakeOpenShiftStore{recs: map[string]*dbmodels.OpenShiftMapping{}}
}

func (f *fakeOpenShiftStore) GetByRowKey(rowKey string) (*dbmodels.OpenShiftMapping, error) {
	if rec, ok := f.recs[rowKey]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOpenShiftStore) GetByHash(partitionKey, hash string) (*dbmodels.OpenShiftMapping, error) {
	for _, rec := range f.recs {
		if rec.PartitionKey == partitionKey && rec.WfmUniqueHash == hash {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOpenShiftStore) List(partitionKeys []string, orgJobPath string) ([]dbmodels.OpenShiftMapping, error) {
	var out []dbmodels.OpenShiftMapping
	for _, rec := range f.recs {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeOpenShiftStore) Save(rec *dbmodels.OpenShiftMapping) error {
	f.mutations++
	cp := *rec
	f.recs[rec.RowKey] = &cp
	return nil
}

func (f *fakeOpenShiftStore) Delete(rowKey string) error {
	f.mutations++
	delete(f.recs, rowKey)
	return nil
}

type fakeOpenShiftReqStore struct {
	recs      map[string]*dbmodels.OpenShiftRequestMapping
	mutations int
}

func newFakeOpenShiftReqStore() *fakeOpenShiftReqStore {
	return &fakeOpenShiftReqStore{recs: map[string]*dbmodels.OpenShiftRequestMapping{}}
}

func (f *fakeOpenShiftReqStore) GetByRowKey(rowKey string) (*dbmodels.OpenShiftRequestMapping, error) {
	if rec, ok := f.recs[rowKey]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOpenShiftReqStore) ListPendingByOpenShiftID(openShiftID, excludeRowKey string) ([]dbmodels.OpenShiftRequestMapping, error) {
	var out []dbmodels.OpenShiftRequestMapping
	for _, rec := range f.recs {
		if rec.OpenShiftID == openShiftID && rec.RowKey != excludeRowKey && rec.UIStatus == models.StatePending {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeOpenShiftReqStore) ListPending() ([]dbmodels.OpenShiftRequestMapping, error) {
	var out []dbmodels.OpenShiftRequestMapping
	for _, rec := range f.recs {
		if rec.UIStatus == models.StatePending && rec.WfmRequestID != "" {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeOpenShiftReqStore) Save(rec *dbmodels.OpenShiftRequestMapping) error {
	f.mutations++
	cp := *rec
	f.recs[rec.RowKey] = &cp
	return nil
}

func (f *fakeOpenShiftReqStore) Delete(rowKey string) error {
	f.mutations++
	delete(f.recs, rowKey)
	return nil
}

type fakeSwapStore struct {
	recs      map[string]*dbmodels.SwapShiftRequestMapping
	mutations int
}

func newFakeSwapStore() *fakeSwapStore {
	return &fakeSwapStore{recs: map[string]*dbmodels.SwapShiftRequestMapping{}}
}

func (f *fakeSwapStore) GetByRowKey(rowKey string) (*dbmodels.SwapShiftRequestMapping, error) {
	if rec, ok := f.recs[rowKey]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSwapStore) ListPendingByShiftIDs(shiftIDs []string, excludeRowKey string) ([]dbmodels.SwapShiftRequestMapping, error) {
	return nil, nil
}

func (f *fakeSwapStore) Save(rec *dbmodels.SwapShiftRequestMapping) error {
	f.mutations++
	cp := *rec
	f.recs[rec.RowKey] = &cp
	return nil
}

func (f *fakeSwapStore) Delete(rowKey string) error {
	f.mutations++
	delete(f.recs, rowKey)
	return nil
}

type fakeUserStore struct {
	recs map[string]*dbmodels.UserMapping
}

func newFakeUserStore(users ...*dbmodels.UserMapping) *fakeUserStore {
	f := &fakeUserStore{recs: map[string]*dbmodels.UserMapping{}}
	for _, u := range users {
		f.recs[u.TeamID+"/"+u.UserID] = u
	}
	return f
}

func (f *fakeUserStore) GetByUserID(teamID, userID string) (*dbmodels.UserMapping, error) {
	return f.recs[teamID+"/"+userID], nil
}

func (f *fakeUserStore) GetByPersonNumber(teamID, personNumber string) (*dbmodels.UserMapping, error) {
	for _, rec := range f.recs {
		if rec.TeamID == teamID && rec.WfmPersonNumber == personNumber {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) ListActive(teamID string) ([]dbmodels.UserMapping, error) { return nil, nil }
func (f *fakeUserStore) Save(rec *dbmodels.UserMapping) error                     { return nil }
func (f *fakeUserStore) Delete(teamID, userID string) error                       { return nil }

type fakeWfmClient struct {
	submittedOpenShiftReqs []wfmapimodels.OpenShiftRequest
	submittedSwaps         []wfmapimodels.SwapShiftRequest
	statusUpdates          []wfmapimodels.StatusUpdate
}

func (f *fakeWfmClient) RequestToken(ctx context.Context) (*wfmapimodels.TokenResponse, error) {
	return &wfmapimodels.TokenResponse{AccessToken: "token"}, nil
}

func (f *fakeWfmClient) Logon(ctx context.Context, endpoint, accessToken string) (*wfmapimodels.LogonResponse, error) {
	return &wfmapimodels.LogonResponse{Status: "Success", Jsession: "jsession"}, nil
}

func (f *fakeWfmClient) FetchShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleShift, error) {
	return nil, nil
}

func (f *fakeWfmClient) FetchOpenShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleOpenShift, error) {
	return nil, nil
}

func (f *fakeWfmClient) SubmitOpenShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.OpenShiftRequest) (*wfmapimodels.RequestResponse, error) {
	f.submittedOpenShiftReqs = append(f.submittedOpenShiftReqs, req)
	return &wfmapimodels.RequestResponse{Status: "Success", RequestID: "wfm-req-1"}, nil
}

func (f *fakeWfmClient) GetOpenShiftRequestStatus(ctx context.Context, endpoint, jsession, wfmRequestID string) (*wfmapimodels.RequestResponse, error) {
	return &wfmapimodels.RequestResponse{Status: "Offered", RequestID: wfmRequestID}, nil
}

func (f *fakeWfmClient) UpdateOpenShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error) {
	f.statusUpdates = append(f.statusUpdates, upd)
	return &wfmapimodels.RequestResponse{Status: "Success", RequestID: upd.RequestID}, nil
}

func (f *fakeWfmClient) SubmitSwapShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.SwapShiftRequest) (*wfmapimodels.RequestResponse, error) {
	f.submittedSwaps = append(f.submittedSwaps, req)
	return &wfmapimodels.RequestResponse{Status: "Success", RequestID: "wfm-swap-1"}, nil
}

func (f *fakeWfmClient) UpdateSwapShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error) {
	f.statusUpdates = append(f.statusUpdates, upd)
	return &wfmapimodels.RequestResponse{Status: "Success", RequestID: upd.RequestID}, nil
}

type fakeSession struct{}

func (fakeSession) Get(ctx context.Context, endpoint string) (string, error) { return "jsession", nil }
func (fakeSession) Invalidate(endpoint string)                               {}

// ---- harness ----

type harness struct {
	impl          *impl
	shiftStore    *fakeShiftStore
	openShifts    *fakeOpenShiftStore
	openShiftReqs *fakeOpenShiftReqStore
	swaps         *fakeSwapStore
	client        *fakeWfmClient
}

func newHarness(t *testing.T, users ...*dbmodels.UserMapping) *harness {
	t.Helper()
	tz, err := wfmtime.New("America/New_York")
	require.NoError(t, err)

	h := &harness{
		shiftStore:    newFakeShiftStore(),
		openShifts:    newFakeOpenShiftStore(),
		openShiftReqs: newFakeOpenShiftReqStore(),
		swaps:         newFakeSwapStore(),
		client:        &fakeWfmClient{},
	}
	h.impl = &impl{
		client:            h.client,
		session:           fakeSession{},
		shiftStore:        h.shiftStore,
		openShiftStore:    h.openShifts,
		openShiftReqStore: h.openShiftReqs,
		swapStore:         h.swaps,
		userStore:         newFakeUserStore(users...),
		tz:                tz,
		hasher:            secure.NewHasher(tz),
	}
	return h
}

func (h *harness) mutations() int {
	return h.shiftStore.mutations + h.openShifts.mutations + h.openShiftReqs.mutations + h.swaps.mutations
}

func sub(t *testing.T, id, method, url string, body interface{}) teamsapimodels.SubRequest {
	t.Helper()
	out := teamsapimodels.SubRequest{ID: id, Method: method, URL: url}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		out.Body = raw
	}
	return out
}

func ackByID(t *testing.T, ack *teamsapimodels.AckBatch, id string) teamsapimodels.AckEntry {
	t.Helper()
	for _, entry := range ack.Responses {
		if entry.ID == id {
			return entry
		}
	}
	t.Fatalf("no ack for sub-request %v", id)
	return teamsapimodels.AckEntry{}
}

func requireAckIDs(t *testing.T, ack *teamsapimodels.AckBatch, ids ...string) {
	t.Helper()
	require.Len(t, ack.Responses, len(ids))
	seen := map[string]int{}
	for _, entry := range ack.Responses {
		seen[entry.ID]++
	}
	for _, id := range ids {
		require.Equal(t, 1, seen[id], "expected exactly one ack for %v", id)
	}
}

var (
	shiftStart = time.Date(2026, 4, 6, 13, 0, 0, 0, time.UTC)
	shiftEnd   = time.Date(2026, 4, 6, 21, 0, 0, 0, time.UTC)
)

func uiShift(id, eTag, userID string) teamsapimodels.Shift {
	return teamsapimodels.Shift{
		ID:     id,
		ETag:   eTag,
		UserID: userID,
		SharedShift: &teamsapimodels.ShiftItem{
			StartDateTime: shiftStart,
			EndDateTime:   shiftEnd,
			Activities: []teamsapimodels.Activity{
				{DisplayName: "Cashier", StartDateTime: shiftStart, EndDateTime: shiftEnd},
			},
		},
	}
}

// ---- tests ----

func TestEchoBatches(t *testing.T) {
	ctx := context.TODO()

	t.Run(`shift-only batch is echoed with success`, func(t *testing.T) {
		h := newHarness(t)
		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "POST", "/teams/t1/schedule/shifts/sh1", uiShift("sh1", "tag-1", "u1")),
			sub(t, "2", "DELETE", "/teams/t1/schedule/shifts/sh2", nil),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1", "2")
		for _, entry := range ack.Responses {
			require.Equal(t, 200, entry.Status)
			require.NotEmpty(t, entry.Body.ETag)
			require.Nil(t, entry.Body.Error)
		}
		require.Equal(t, "tag-1", ackByID(t, ack, "1").Body.ETag)
	})

	t.Run(`open-shift-only batch is echoed with a generated etag`, func(t *testing.T) {
		h := newHarness(t)
		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "PUT", "/teams/t1/schedule/openshifts/os1", map[string]string{"id": "os1"}),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1")
		require.Equal(t, 200, ack.Responses[0].Status)
		require.NotEmpty(t, ack.Responses[0].Body.ETag)
		require.Zero(t, h.mutations())
	})
}

func TestOpenShiftRequestFlow(t *testing.T) {
	ctx := context.TODO()
	user := &dbmodels.UserMapping{UserID: "u1", TeamID: "t1", WfmPersonNumber: "1001", IsActive: true}

	t.Run(`pending request is submitted to WFM with exactly one ack`, func(t *testing.T) {
		h := newHarness(t, user)
		require.NoError(t, h.openShifts.Save(&dbmodels.OpenShiftMapping{
			RowKey:        "os1",
			WfmOrgJobPath: "Org/Store/Dept",
			StartDateTime: shiftStart,
			EndDateTime:   shiftEnd,
		}))
		h.openShifts.mutations = 0

		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "POST", "/teams/t1/schedule/openshifts/os1/openshiftrequests/req1", teamsapimodels.OpenShiftRequest{
				ID:           "req1",
				ETag:         "tag-req",
				OpenShiftID:  "os1",
				SenderUserID: "u1",
				State:        models.StatePending,
				AssignedTo:   models.AssignedToRecipient,
			}),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1")
		require.Equal(t, 200, ack.Responses[0].Status)
		require.Equal(t, "tag-req", ack.Responses[0].Body.ETag)

		require.Len(t, h.client.submittedOpenShiftReqs, 1)
		submitted := h.client.submittedOpenShiftReqs[0]
		require.Equal(t, "1001", submitted.PersonNumber)
		require.Equal(t, "Org/Store/Dept", submitted.OrgJobPath)
		require.Equal(t, "4/06/2026", submitted.StartDate)
		require.Equal(t, "9:00 AM", submitted.StartTime)

		rec, err := h.openShiftReqs.GetByRowKey("req1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "wfm-req-1", rec.WfmRequestID)
		require.Equal(t, models.StatePending, rec.UIStatus)
		require.Equal(t, "4_2026", rec.PartitionKey)
	})

	t.Run(`unmapped sender gets a per-item error, not a batch failure`, func(t *testing.T) {
		h := newHarness(t)
		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "POST", "/teams/t1/schedule/openshifts/os1/openshiftrequests/req1", teamsapimodels.OpenShiftRequest{
				ID:           "req1",
				OpenShiftID:  "os1",
				SenderUserID: "ghost",
				State:        models.StatePending,
				AssignedTo:   models.AssignedToRecipient,
			}),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1")
		require.Equal(t, 404, ack.Responses[0].Status)
		require.NotNil(t, ack.Responses[0].Body.Error)
		require.Empty(t, h.client.submittedOpenShiftReqs)
	})

	approvalBatch := func(t *testing.T) teamsapimodels.Batch {
		return teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "PUT", "/teams/t1/schedule/openshifts/os1/openshiftrequests/req1", teamsapimodels.OpenShiftRequest{
				ID:          "req1",
				ETag:        "tag-req",
				OpenShiftID: "os1",
				State:       models.StateApproved,
				AssignedTo:  models.AssignedToManager,
			}),
			sub(t, "2", "POST", "/teams/t1/schedule/shifts/sh-new", uiShift("sh-new", "tag-shift", "u1")),
			sub(t, "3", "PUT", "/teams/t1/schedule/openshifts/os1", map[string]string{"id": "os1", "eTag": "tag-os"}),
			sub(t, "4", "PUT", "/teams/t1/schedule/openshifts/os1/openshiftrequests/req2", teamsapimodels.OpenShiftRequest{
				ID:          "req2",
				ETag:        "tag-loser",
				OpenShiftID: "os1",
				State:       models.StateDeclined,
				AssignedTo:  models.AssignedToSystem,
			}),
		}}
	}

	t.Run(`manager approval promotes the placeholder mapping`, func(t *testing.T) {
		h := newHarness(t, user)
		require.NoError(t, h.shiftStore.Save(&dbmodels.ShiftMapping{
			RowKey:          placeholderPrefix + "req1",
			WfmPersonNumber: "1001",
		}))
		require.NoError(t, h.openShifts.Save(&dbmodels.OpenShiftMapping{RowKey: "os1"}))
		require.NoError(t, h.openShiftReqs.Save(&dbmodels.OpenShiftRequestMapping{
			RowKey:      "req1",
			OpenShiftID: "os1",
			UIStatus:    models.StatePending,
		}))
		require.NoError(t, h.openShiftReqs.Save(&dbmodels.OpenShiftRequestMapping{
			RowKey:      "req2",
			OpenShiftID: "os1",
			UIStatus:    models.StatePending,
		}))

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, approvalBatch(t))
		require.NoError(t, err)
		requireAckIDs(t, ack, "1", "2", "3", "4")
		require.Equal(t, "tag-req", ackByID(t, ack, "1").Body.ETag)
		require.Equal(t, "tag-shift", ackByID(t, ack, "2").Body.ETag)

		perm, err := h.shiftStore.GetByRowKey("sh-new")
		require.NoError(t, err)
		require.NotNil(t, perm)
		require.Equal(t, "1001", perm.WfmPersonNumber)
		require.NotEmpty(t, perm.WfmUniqueHash)
		require.Equal(t, "4_2026", perm.PartitionKey)

		gone, err := h.shiftStore.GetByRowKey(placeholderPrefix + "req1")
		require.NoError(t, err)
		require.Nil(t, gone)

		osGone, err := h.openShifts.GetByRowKey("os1")
		require.NoError(t, err)
		require.Nil(t, osGone)

		winner, err := h.openShiftReqs.GetByRowKey("req1")
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, winner.UIStatus)

		loser, err := h.openShiftReqs.GetByRowKey("req2")
		require.NoError(t, err)
		require.Equal(t, models.StateDeclined, loser.UIStatus)
	})

	t.Run(`missing placeholder is tolerated, approval still completes`, func(t *testing.T) {
		h := newHarness(t, user)
		require.NoError(t, h.openShifts.Save(&dbmodels.OpenShiftMapping{RowKey: "os1"}))
		require.NoError(t, h.openShiftReqs.Save(&dbmodels.OpenShiftRequestMapping{
			RowKey:      "req1",
			OpenShiftID: "os1",
			UIStatus:    models.StatePending,
		}))
		require.NoError(t, h.openShiftReqs.Save(&dbmodels.OpenShiftRequestMapping{
			RowKey:      "req2",
			OpenShiftID: "os1",
			UIStatus:    models.StatePending,
		}))

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, approvalBatch(t))
		require.NoError(t, err)
		requireAckIDs(t, ack, "1", "2", "3", "4")

		winner, err := h.openShiftReqs.GetByRowKey("req1")
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, winner.UIStatus)

		osGone, err := h.openShifts.GetByRowKey("os1")
		require.NoError(t, err)
		require.Nil(t, osGone)
	})

	t.Run(`replayed approval batch converges on one permanent mapping`, func(t *testing.T) {
		h := newHarness(t, user)
		require.NoError(t, h.shiftStore.Save(&dbmodels.ShiftMapping{
			RowKey:          placeholderPrefix + "req1",
			WfmPersonNumber: "1001",
		}))
		require.NoError(t, h.openShifts.Save(&dbmodels.OpenShiftMapping{RowKey: "os1"}))

		_, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, approvalBatch(t))
		require.NoError(t, err)
		firstCount := len(h.shiftStore.recs)

		_, err = h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, approvalBatch(t))
		require.NoError(t, err)
		require.Equal(t, firstCount, len(h.shiftStore.recs))
	})

	t.Run(`manager approval from an unverified sender declines everything`, func(t *testing.T) {
		h := newHarness(t, user)
		require.NoError(t, h.shiftStore.Save(&dbmodels.ShiftMapping{
			RowKey:          placeholderPrefix + "req1",
			WfmPersonNumber: "1001",
		}))
		h.shiftStore.mutations = 0

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", false, approvalBatch(t))
		require.NoError(t, err)
		requireAckIDs(t, ack, "1", "2", "3", "4")
		for _, entry := range ack.Responses {
			require.Equal(t, 400, entry.Status)
			require.NotNil(t, entry.Body.Error)
			require.Equal(t, errCodeForbidden, entry.Body.Error.Code)
			require.NotEmpty(t, entry.Body.ETag)
		}
		require.Zero(t, h.mutations())
	})
}

func TestSwapRequestFlow(t *testing.T) {
	ctx := context.TODO()
	users := []*dbmodels.UserMapping{
		{UserID: "u1", TeamID: "t1", WfmPersonNumber: "1001", IsActive: true},
		{UserID: "u2", TeamID: "t1", WfmPersonNumber: "1002", IsActive: true},
	}

	t.Run(`new swap is submitted to WFM`, func(t *testing.T) {
		h := newHarness(t, users...)
		require.NoError(t, h.shiftStore.Save(&dbmodels.ShiftMapping{
			RowKey: "sh1", WfmPersonNumber: "1001", ShiftStartDate: shiftStart, ShiftEndDate: shiftEnd,
		}))
		require.NoError(t, h.shiftStore.Save(&dbmodels.ShiftMapping{
			RowKey: "sh2", WfmPersonNumber: "1002", ShiftStartDate: shiftStart.Add(24 * time.Hour), ShiftEndDate: shiftEnd.Add(24 * time.Hour),
		}))

		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "POST", "/teams/t1/schedule/swapRequests/swap1", teamsapimodels.SwapRequest{
				ID:               "swap1",
				ETag:             "tag-swap",
				SenderShiftID:    "sh1",
				RecipientShiftID: "sh2",
				SenderUserID:     "u1",
				RecipientUserID:  "u2",
				State:            models.StatePending,
				AssignedTo:       models.AssignedToRecipient,
			}),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1")
		require.Equal(t, "tag-swap", ack.Responses[0].Body.ETag)

		require.Len(t, h.client.submittedSwaps, 1)
		require.Equal(t, "1001", h.client.submittedSwaps[0].RequestorPersonNumber)
		require.Equal(t, "1002", h.client.submittedSwaps[0].RecipientPersonNumber)

		rec, err := h.swaps.GetByRowKey("swap1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "wfm-swap-1", rec.WfmRequestID)
		require.Equal(t, models.SwapShiftPending, rec.UIStatus)
	})

	t.Run(`recipient acceptance is forwarded to the manager queue`, func(t *testing.T) {
		h := newHarness(t, users...)
		require.NoError(t, h.swaps.Save(&dbmodels.SwapShiftRequestMapping{
			RowKey: "swap1", WfmRequestID: "wfm-swap-1", UIStatus: models.SwapShiftPending,
		}))

		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "PUT", "/teams/t1/schedule/swapRequests/swap1", teamsapimodels.SwapRequest{
				ID:         "swap1",
				State:      models.StatePending,
				AssignedTo: models.AssignedToManager,
			}),
		}}

		_, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		require.Len(t, h.client.statusUpdates, 1)
		require.Equal(t, wfmStatusSubmitted, h.client.statusUpdates[0].Status)

		rec, err := h.swaps.GetByRowKey("swap1")
		require.NoError(t, err)
		require.Equal(t, models.SwapShiftSubmitted, rec.UIStatus)
	})

	t.Run(`recipient decline propagates to WFM`, func(t *testing.T) {
		h := newHarness(t, users...)
		require.NoError(t, h.swaps.Save(&dbmodels.SwapShiftRequestMapping{
			RowKey: "swap1", WfmRequestID: "wfm-swap-1", UIStatus: models.SwapShiftPending,
		}))

		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "PUT", "/teams/t1/schedule/swapRequests/swap1", teamsapimodels.SwapRequest{
				ID:         "swap1",
				State:      models.StateDeclined,
				AssignedTo: models.AssignedToRecipient,
			}),
		}}

		_, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		require.Len(t, h.client.statusUpdates, 1)
		require.Equal(t, wfmStatusRefused, h.client.statusUpdates[0].Status)

		rec, err := h.swaps.GetByRowKey("swap1")
		require.NoError(t, err)
		require.Equal(t, models.SwapShiftDeclined, rec.UIStatus)
	})

	t.Run(`bodyless DELETE cancels the swap`, func(t *testing.T) {
		h := newHarness(t, users...)
		require.NoError(t, h.swaps.Save(&dbmodels.SwapShiftRequestMapping{
			RowKey: "swap1", RequestorETag: "tag-swap", UIStatus: models.SwapShiftPending,
		}))

		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "DELETE", "/teams/t1/schedule/swapRequests/swap1", nil),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1")
		require.Equal(t, 200, ack.Responses[0].Status)
		require.Equal(t, "tag-swap", ack.Responses[0].Body.ETag)

		rec, err := h.swaps.GetByRowKey("swap1")
		require.NoError(t, err)
		require.Equal(t, models.SwapShiftCancelled, rec.UIStatus)
	})

	t.Run(`manager approval acknowledges shifts, request and competitors`, func(t *testing.T) {
		h := newHarness(t, users...)
		require.NoError(t, h.swaps.Save(&dbmodels.SwapShiftRequestMapping{
			RowKey: "swap1", UIStatus: models.SwapShiftSubmitted,
		}))
		require.NoError(t, h.swaps.Save(&dbmodels.SwapShiftRequestMapping{
			RowKey: "swap2", UIStatus: models.SwapShiftPending,
		}))

		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "PUT", "/teams/t1/schedule/swapRequests/swap1", teamsapimodels.SwapRequest{
				ID:         "swap1",
				ETag:       "tag-swap",
				State:      models.StateApproved,
				AssignedTo: models.AssignedToManager,
			}),
			sub(t, "2", "POST", "/teams/t1/schedule/shifts/sh-a", uiShift("sh-a", "tag-a", "u1")),
			sub(t, "3", "POST", "/teams/t1/schedule/shifts/sh-b", uiShift("sh-b", "tag-b", "u2")),
			sub(t, "4", "DELETE", "/teams/t1/schedule/shifts/sh-old", nil),
			sub(t, "5", "PUT", "/teams/t1/schedule/swapRequests/swap2", teamsapimodels.SwapRequest{
				ID:         "swap2",
				State:      models.StateDeclined,
				AssignedTo: models.AssignedToSystem,
			}),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", true, batch)
		require.NoError(t, err)
		// two new shifts + one deleted shift + the request + one competitor
		requireAckIDs(t, ack, "1", "2", "3", "4", "5")
		require.Equal(t, "tag-swap", ackByID(t, ack, "1").Body.ETag)

		shiftA, err := h.shiftStore.GetByRowKey("sh-a")
		require.NoError(t, err)
		require.NotNil(t, shiftA)
		require.NotEmpty(t, shiftA.WfmUniqueHash)
		require.Equal(t, "1001", shiftA.WfmPersonNumber)

		shiftB, err := h.shiftStore.GetByRowKey("sh-b")
		require.NoError(t, err)
		require.NotNil(t, shiftB)
		require.NotEmpty(t, shiftB.WfmUniqueHash)
		require.Equal(t, "1002", shiftB.WfmPersonNumber)

		approved, err := h.swaps.GetByRowKey("swap1")
		require.NoError(t, err)
		require.Equal(t, models.SwapShiftApproved, approved.UIStatus)

		competitor, err := h.swaps.GetByRowKey("swap2")
		require.NoError(t, err)
		require.Equal(t, models.SwapShiftDeclined, competitor.UIStatus)

		loserAck := ackByID(t, ack, "5")
		require.NotNil(t, loserAck.Body.Error)
		require.Equal(t, errCodeSystemDeclined, loserAck.Body.Error.Code)
	})

	t.Run(`manager approval from an unverified sender mutates nothing`, func(t *testing.T) {
		h := newHarness(t, users...)
		batch := teamsapimodels.Batch{Requests: []teamsapimodels.SubRequest{
			sub(t, "1", "PUT", "/teams/t1/schedule/swapRequests/swap1", teamsapimodels.SwapRequest{
				ID:         "swap1",
				State:      models.StateApproved,
				AssignedTo: models.AssignedToManager,
			}),
			sub(t, "2", "POST", "/teams/t1/schedule/shifts/sh-a", uiShift("sh-a", "tag-a", "u1")),
		}}

		ack, err := h.impl.ProcessBatch(ctx, "t1", "https://wfm", false, batch)
		require.NoError(t, err)
		requireAckIDs(t, ack, "1", "2")
		for _, entry := range ack.Responses {
			require.Equal(t, 400, entry.Status)
		}
		require.Zero(t, h.mutations())
	})
}
