package usermaphandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	dbmodels "wfm-shifts-connector/models/db"
)

type memUserStore struct {
	recs map[string]*dbmodels.UserMapping
}

func (m *memUserStore) GetByUserID(teamID, userID string) (*dbmodels.UserMapping, error) {
	return m.recs[teamID+"/"+userID], nil
}

func (m *memUserStore) GetByPersonNumber(teamID, personNumber string) (*dbmodels.UserMapping, error) {
	return nil, nil
}

func (m *memUserStore) ListActive(teamID string) ([]dbmodels.UserMapping, error) {
	var out []dbmodels.UserMapping
	for _, rec := range m.recs {
		if rec.TeamID == teamID && rec.IsActive {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memUserStore) Save(rec *dbmodels.UserMapping) error {
	cp := *rec
	m.recs[rec.TeamID+"/"+rec.UserID] = &cp
	return nil
}

func (m *memUserStore) Delete(teamID, userID string) error {
	delete(m.recs, teamID+"/"+userID)
	return nil
}

func TestUserMappingWorkbook(t *testing.T) {
	ctx := context.TODO()

	t.Run(`export then import round-trips the mappings`, func(t *testing.T) {
		source := &memUserStore{recs: map[string]*dbmodels.UserMapping{}}
		require.NoError(t, source.Save(&dbmodels.UserMapping{
			UserID: "u1", TeamID: "t1", WfmPersonNumber: "1001", WfmUserName: "jdoe", IsActive: true,
		}))
		require.NoError(t, source.Save(&dbmodels.UserMapping{
			UserID: "u2", TeamID: "t1", WfmPersonNumber: "1002", WfmUserName: "asmith", IsActive: true,
		}))

		exporter := impl{userStore: source}
		buf, err := exporter.Export(ctx, "t1")
		require.NoError(t, err)
		require.NotZero(t, buf.Len())

		target := &memUserStore{recs: map[string]*dbmodels.UserMapping{}}
		importer := impl{userStore: target}
		imported, err := importer.Import(ctx, "t1", buf.Bytes())
		require.NoError(t, err)
		require.Equal(t, 2, imported)

		rec, err := target.GetByUserID("t1", "u1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "1001", rec.WfmPersonNumber)
		require.Equal(t, "jdoe", rec.WfmUserName)
		require.True(t, rec.IsActive)
	})

	t.Run(`row without a person number fails validation`, func(t *testing.T) {
		source := &memUserStore{recs: map[string]*dbmodels.UserMapping{}}
		require.NoError(t, source.Save(&dbmodels.UserMapping{
			UserID: "u1", TeamID: "t1", IsActive: true,
		}))

		exporter := impl{userStore: source}
		buf, err := exporter.Export(ctx, "t1")
		require.NoError(t, err)

		importer := impl{userStore: &memUserStore{recs: map[string]*dbmodels.UserMapping{}}}
		_, err = importer.Import(ctx, "t1", buf.Bytes())
		require.Error(t, err)
	})

	t.Run(`garbage input is rejected`, func(t *testing.T) {
		importer := impl{userStore: &memUserStore{recs: map[string]*dbmodels.UserMapping{}}}
		_, err := importer.Import(ctx, "t1", []byte("not a workbook"))
		require.Error(t, err)
	})
}
