package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muze-kasif/internal/catalog"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return AttachDB(db), mock
}

var museumColumns = []string{"id", "name", "category", "status", "district", "lat", "lng",
	"free_rule", "rating", "review_count", "description", "image_url", "website_url", "image_file"}

func TestLoadMuseums(t *testing.T) {
	s, mock := newMock(t)
	rows := sqlmock.NewRows(museumColumns).
		AddRow("topkapi", "Topkapı Sarayı", "Tarih", "Open", "Fatih", 41.0115, 28.9834,
			"", 4.7, 125000, "Osmanlı sarayı", "https://img/topkapi.jpg", "https://topkapisarayi.gov.tr", "topkapi.jpg").
		AddRow("pelit", "Pelit Çikolata Müzesi", "Eğlence", "Closed", "Esenyurt", 41.03, 28.67,
			"Ücretsiz", 0, 0, "", "", "", "pelit.jpg")
	mock.ExpectQuery(regexp.QuoteMeta(selectMuseums)).WillReturnRows(rows)

	got, err := s.LoadMuseums(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "topkapi", got[0].ID)
	assert.Equal(t, catalog.StatusOpen, got[0].Status)
	assert.Equal(t, 41.0115, got[0].Location.Lat)
	assert.Equal(t, 125000, got[0].ReviewCount)
	assert.Equal(t, catalog.StatusClosed, got[1].Status)
	assert.False(t, got[1].HasRating())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedMuseumsCommits(t *testing.T) {
	s, mock := newMock(t)
	records := []catalog.Museum{
		{ID: "a", Name: "A", Category: "Tarih", Status: catalog.StatusOpen},
		{ID: "b", Name: "B", Category: "Sanat", Status: catalog.StatusRestoration},
	}
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO _museums")
	prep.ExpectExec().WithArgs("a", 0, "A", "Tarih", "Open", "", 0.0, 0.0, "", 0.0, 0, "", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("b", 1, "B", "Sanat", "Restoration", "", 0.0, 0.0, "", 0.0, 0, "", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SeedMuseums(context.Background(), records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedMuseumsRollsBackOnError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO _museums").ExpectExec().WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.SeedMuseums(context.Background(), []catalog.Museum{{ID: "a"}})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountMuseums(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM _museums")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	n, err := s.CountMuseums(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestUpsertImage(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO _museum_images").
		WithArgs("beylerbeyi.jpg", "Beylerbeyi_Palace", "https://upload/800px-b.jpg", ImageOK).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpsertImage(context.Background(), "beylerbeyi.jpg", "Beylerbeyi_Palace", "https://upload/800px-b.jpg", ImageOK))
	assert.Error(t, s.UpsertImage(context.Background(), "", "x", "", ImageError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertImageKeepsEarlierOK(t *testing.T) {
	s, mock := newMock(t)
	keep := "CASE WHEN _museum_images.status='ok' AND EXCLUDED.status<>'ok' THEN _museum_images.url ELSE EXCLUDED.url END"
	mock.ExpectExec(regexp.QuoteMeta(keep)).
		WithArgs("beylerbeyi.jpg", "Beylerbeyi_Palace", "", ImageError).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpsertImage(context.Background(), "beylerbeyi.jpg", "Beylerbeyi_Palace", "", ImageError))
	assert.Contains(t, upsertImage, "status=CASE WHEN _museum_images.status='ok' AND EXCLUDED.status<>'ok' THEN _museum_images.status")
	assert.Contains(t, upsertImage, "last_status=EXCLUDED.last_status, fetched_at=EXCLUDED.fetched_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrQueriesAndTotals(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("UPDATE _muze_stats_total").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO _muze_stats_daily").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.IncrQueries(context.Background()))

	mock.ExpectQuery("SELECT total_queries FROM _muze_stats_total").
		WillReturnRows(sqlmock.NewRows([]string{"total_queries"}).AddRow(int64(42)))
	mock.ExpectQuery("SELECT queries FROM _muze_stats_daily").
		WillReturnRows(sqlmock.NewRows([]string{"queries"}))
	tot, err := s.GetTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), tot.Total)
	assert.Equal(t, int64(0), tot.Today)
	assert.NoError(t, mock.ExpectationsWereMet())
}
