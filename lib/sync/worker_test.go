package syncworker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wfm-shifts-connector/lib/secure"
	baseworker "wfm-shifts-connector/lib/utils/base-worker"
	"wfm-shifts-connector/lib/wfmtime"
	"wfm-shifts-connector/models"
	wfmapimodels "wfm-shifts-connector/models/api/wfm"
	dbmodels "wfm-shifts-connector/models/db"
)

type memShiftStore struct {
	recs map[string]*dbmodels.ShiftMapping
}

func (m *memShiftStore) GetByRowKey(rowKey string) (*dbmodels.ShiftMapping, error) {
	return m.recs[rowKey], nil
}

func (m *memShiftStore) GetByHash(partitionKey, hash string) (*dbmodels.ShiftMapping, error) {
	for _, rec := range m.recs {
		if rec.PartitionKey == partitionKey && rec.WfmUniqueHash == hash {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *memShiftStore) List(partitionKeys []string, personNumbers []string) ([]dbmodels.ShiftMapping, error) {
	return nil, nil
}

func (m *memShiftStore) Save(rec *dbmodels.ShiftMapping) error {
	cp := *rec
	m.recs[rec.RowKey] = &cp
	return nil
}

func (m *memShiftStore) Delete(rowKey string) error {
	delete(m.recs, rowKey)
	return nil
}

type memOpenShiftStore struct {
	recs map[string]*dbmodels.OpenShiftMapping
}

func (m *memOpenShiftStore) GetByRowKey(rowKey string) (*dbmodels.OpenShiftMapping, error) {
	return m.recs[rowKey], nil
}

func (m *memOpenShiftStore) GetByHash(partitionKey, hash string) (*dbmodels.OpenShiftMapping, error) {
	for _, rec := range m.recs {
		if rec.PartitionKey == partitionKey && rec.WfmUniqueHash == hash {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *memOpenShiftStore) List(partitionKeys []string, orgJobPath string) ([]dbmodels.OpenShiftMapping, error) {
	return nil, nil
}

func (m *memOpenShiftStore) Save(rec *dbmodels.OpenShiftMapping) error {
	cp := *rec
	m.recs[rec.RowKey] = &cp
	return nil
}

func (m *memOpenShiftStore) Delete(rowKey string) error {
	delete(m.recs, rowKey)
	return nil
}

type memReqStore struct {
	recs map[string]*dbmodels.OpenShiftRequestMapping
}

func (m *memReqStore) GetByRowKey(rowKey string) (*dbmodels.OpenShiftRequestMapping, error) {
	return m.recs[rowKey], nil
}

func (m *memReqStore) ListPendingByOpenShiftID(openShiftID, excludeRowKey string) ([]dbmodels.OpenShiftRequestMapping, error) {
	return nil, nil
}

func (m *memReqStore) ListPending() ([]dbmodels.OpenShiftRequestMapping, error) {
	var out []dbmodels.OpenShiftRequestMapping
	for _, rec := range m.recs {
		if rec.UIStatus == models.StatePending && rec.WfmRequestID != "" {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memReqStore) Save(rec *dbmodels.OpenShiftRequestMapping) error {
	cp := *rec
	m.recs[rec.RowKey] = &cp
	return nil
}

func (m *memReqStore) Delete(rowKey string) error {
	delete(m.recs, rowKey)
	return nil
}

type memUserStore struct{}

func (memUserStore) GetByUserID(teamID, userID string) (*dbmodels.UserMapping, error) {
	return &dbmodels.UserMapping{UserID: userID, TeamID: teamID, WfmPersonNumber: "1001"}, nil
}

func (memUserStore) GetByPersonNumber(teamID, personNumber string) (*dbmodels.UserMapping, error) {
	return nil, nil
}

func (memUserStore) ListActive(teamID string) ([]dbmodels.UserMapping, error) { return nil, nil }
func (memUserStore) Save(rec *dbmodels.UserMapping) error                     { return nil }
func (memUserStore) Delete(teamID, userID string) error                       { return nil }

type memClient struct {
	openShifts      []wfmapimodels.ScheduleOpenShift
	requestStatuses map[string]string
}

func (m *memClient) RequestToken(ctx context.Context) (*wfmapimodels.TokenResponse, error) {
	return &wfmapimodels.TokenResponse{AccessToken: "token"}, nil
}

func (m *memClient) Logon(ctx context.Context, endpoint, accessToken string) (*wfmapimodels.LogonResponse, error) {
	return &wfmapimodels.LogonResponse{Status: "Success", Jsession: "jsession"}, nil
}

func (m *memClient) FetchShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleShift, error) {
	return nil, nil
}

func (m *memClient) FetchOpenShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleOpenShift, error) {
	return m.openShifts, nil
}

func (m *memClient) SubmitOpenShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.OpenShiftRequest) (*wfmapimodels.RequestResponse, error) {
	return nil, nil
}

func (m *memClient) GetOpenShiftRequestStatus(ctx context.Context, endpoint, jsession, wfmRequestID string) (*wfmapimodels.RequestResponse, error) {
	return &wfmapimodels.RequestResponse{Status: m.requestStatuses[wfmRequestID], RequestID: wfmRequestID}, nil
}

func (m *memClient) UpdateOpenShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error) {
	return nil, nil
}

func (m *memClient) SubmitSwapShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.SwapShiftRequest) (*wfmapimodels.RequestResponse, error) {
	return nil, nil
}

func (m *memClient) UpdateSwapShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error) {
	return nil, nil
}

func newTestWorker(t *testing.T, client *memClient) (workerImpl, *memShiftStore, *memOpenShiftStore, *memReqStore) {
	t.Helper()
	tz, err := wfmtime.New("America/New_York")
	require.NoError(t, err)

	shifts := &memShiftStore{recs: map[string]*dbmodels.ShiftMapping{}}
	openShifts := &memOpenShiftStore{recs: map[string]*dbmodels.OpenShiftMapping{}}
	reqs := &memReqStore{recs: map[string]*dbmodels.OpenShiftRequestMapping{}}

	w := workerImpl{
		BaseImpl:      baseworker.NewInstance("test_sync", time.Minute, time.Minute),
		client:        client,
		userStore:     memUserStore{},
		shiftStore:    shifts,
		openShifts:    openShifts,
		openShiftReqs: reqs,
		tz:            tz,
		hasher:        secure.NewHasher(tz),
	}
	return w, shifts, openShifts, reqs
}

func TestPublishOpenShifts(t *testing.T) {
	ctx := context.TODO()
	client := &memClient{
		openShifts: []wfmapimodels.ScheduleOpenShift{
			{
				OrgJobPath: "Org/Store/Dept",
				StartDate:  "4/06/2026", StartTime: "9:00 AM",
				EndDate: "4/06/2026", EndTime: "5:00 PM",
				SlotCount: 2,
			},
		},
	}
	w, _, openShifts, _ := newTestWorker(t, client)

	t.Run(`WFM open shifts are mirrored once`, func(t *testing.T) {
		err := w.publishOpenShifts(ctx, "https://wfm", "jsession", "Org/Store/Dept", "4/01/2026", "4/30/2026")
		require.NoError(t, err)
		require.Len(t, openShifts.recs, 1)
		for _, rec := range openShifts.recs {
			require.Equal(t, "4_2026", rec.PartitionKey)
			require.Equal(t, 2, rec.SlotCount)
			require.NotEmpty(t, rec.WfmUniqueHash)
		}

		// a second round with the same WFM data must not duplicate
		err = w.publishOpenShifts(ctx, "https://wfm", "jsession", "Org/Store/Dept", "4/01/2026", "4/30/2026")
		require.NoError(t, err)
		require.Len(t, openShifts.recs, 1)
	})
}

func TestPromoteApprovedRequests(t *testing.T) {
	ctx := context.TODO()
	client := &memClient{
		requestStatuses: map[string]string{
			"wfm-1": "Approved",
			"wfm-2": "Offered",
		},
	}
	w, shifts, _, reqs := newTestWorker(t, client)

	require.NoError(t, reqs.Save(&dbmodels.OpenShiftRequestMapping{
		PartitionKey: "4_2026", RowKey: "req1", UserID: "u1",
		WfmRequestID: "wfm-1", UIStatus: models.StatePending,
	}))
	require.NoError(t, reqs.Save(&dbmodels.OpenShiftRequestMapping{
		PartitionKey: "4_2026", RowKey: "req2", UserID: "u2",
		WfmRequestID: "wfm-2", UIStatus: models.StatePending,
	}))

	require.NoError(t, w.promoteApprovedRequests(ctx, "t1", "https://wfm", "jsession"))

	placeholder, err := shifts.GetByRowKey(placeholderPrefix + "req1")
	require.NoError(t, err)
	require.NotNil(t, placeholder)
	require.Equal(t, "1001", placeholder.WfmPersonNumber)
	require.Equal(t, "u1", placeholder.UserID)

	none, err := shifts.GetByRowKey(placeholderPrefix + "req2")
	require.NoError(t, err)
	require.Nil(t, none)

	approved, err := reqs.GetByRowKey("req1")
	require.NoError(t, err)
	require.Equal(t, "Approved", approved.WfmStatus)
	require.Equal(t, models.StatePending, approved.UIStatus)
}
