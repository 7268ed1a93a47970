package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/models"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *RESTStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTStore(srv.URL, "test-key")
}

func TestListRecent_ParsesRows(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/emotion_logs", r.URL.Path)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 42, "created_at": "2026-08-30T10:00:00.000+03:00", "user_input": "newer",
			 "ai_result": {"kind": "analyzed", "summary": "ok", "scores": {"calmness": 2, "awareness": 1, "energy": -1}}},
			{"id": "abc", "created_at": "2026-08-29T09:00:00.000+03:00", "user_input": "older",
			 "ai_result": {"summary": "untagged"}}
		]`))
	})

	recs, err := store.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "42", recs[0].ID)
	assert.Equal(t, "newer", recs[0].UserInput)
	assert.Equal(t, 2, recs[0].Analysis.Scores.Calmness)

	// Rows from older clients carry no kind tag and count as analyzed.
	assert.Equal(t, "abc", recs[1].ID)
	assert.Equal(t, models.AnalysisAnalyzed, recs[1].Analysis.Kind)
	assert.False(t, recs[1].Analysis.Degraded())
}

func TestListRecent_ServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := store.ListRecent(context.Background(), 10)
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestListRecent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	store := NewRESTStore(srv.URL, "test-key")

	_, err := store.ListRecent(context.Background(), 10)
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestInsert_AdoptsRemoteRow(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/emotion_logs", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body []recordRow
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "acc-1", body[0].UserID)
		assert.Equal(t, "2026-08-30T10:15:00.250+03:00", body[0].CreatedAt)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 7, "created_at": "` + body[0].CreatedAt + `",
			"user_input": "` + body[0].UserInput + `",
			"ai_result": {"kind": "analyzed", "summary": "ok"}}]`))
	})

	rec := models.Record{
		ID:        "local-id",
		Timestamp: mustParse(t, "2026-08-30T10:15:00.250+03:00"),
		UserInput: "feeling fine",
		Analysis:  models.Analysis{Kind: models.AnalysisAnalyzed, Summary: "ok"},
	}

	saved, err := store.Insert(context.Background(), rec, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "7", saved.ID)
	assert.Equal(t, "feeling fine", saved.UserInput)
	assert.True(t, saved.Timestamp.Equal(rec.Timestamp))
}

func TestInsert_DefaultsOwner(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		var body []recordRow
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "guest_001", body[0].UserID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "created_at": "` + body[0].CreatedAt + `",
			"user_input": "x", "ai_result": {"kind": "analyzed"}}]`))
	})

	rec := models.Record{Timestamp: mustParse(t, "2026-08-30T10:15:00.000+03:00"), UserInput: "x"}
	_, err := store.Insert(context.Background(), rec, "")
	require.NoError(t, err)
}

func TestInsert_NoRowsReturned(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	rec := models.Record{Timestamp: mustParse(t, "2026-08-30T10:15:00.000+03:00"), UserInput: "x"}
	_, err := store.Insert(context.Background(), rec, "acc-1")
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestDelete_RemovesRow(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.7", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 7, "created_at": "2026-08-30T10:00:00.000+03:00",
			"user_input": "x", "ai_result": {"kind": "analyzed"}}]`))
	})

	require.NoError(t, store.Delete(context.Background(), "7"))
}

func TestDelete_MissingRow(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	err := store.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindAccount_Found(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/test_accounts", r.URL.Path)
		assert.Equal(t, "eq.test01", r.URL.Query().Get("username"))
		assert.Equal(t, "eq.pass01", r.URL.Query().Get("password"))
		assert.Equal(t, "eq.true", r.URL.Query().Get("is_active"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "a1", "username": "test01", "password": "pass01",
			"created_at": "2026-08-01T00:00:00Z", "expires_at": "2026-08-31T00:00:00Z",
			"daily_limit": 15, "total_usage": 3, "is_active": true}]`))
	})

	acc, err := store.FindAccount(context.Background(), "test01", "pass01")
	require.NoError(t, err)
	assert.Equal(t, "a1", acc.ID)
	assert.Equal(t, 15, acc.DailyLimit)
	assert.Equal(t, 3, acc.TotalUsage)
}

func TestFindAccount_NoMatch(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := store.FindAccount(context.Background(), "test01", "wrong")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetUsage_NoRowMeansZero(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/account_usage", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	n, err := store.GetUsage(context.Background(), "a1", "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetUsage_ReturnsCount(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.a1", r.URL.Query().Get("account_id"))
		assert.Equal(t, "eq.2026-08-30", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "account_id": "a1", "date": "2026-08-30", "count": 5}]`))
	})

	n, err := store.GetUsage(context.Background(), "a1", "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestIncrementUsage_FirstOfDayInserts(t *testing.T) {
	var inserted usageRow
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/rest/v1/account_usage" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Path == "/rest/v1/account_usage" && r.Method == http.MethodPost:
			var body []usageRow
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body, 1)
			inserted = body[0]
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Path == "/rest/v1/test_accounts" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id": "a1", "username": "test01", "password": "pass01",
				"created_at": "2026-08-01T00:00:00Z", "expires_at": "2026-09-30T00:00:00Z",
				"daily_limit": 15, "total_usage": 9, "is_active": true}]`))
		case r.URL.Path == "/rest/v1/test_accounts" && r.Method == http.MethodPatch:
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 10, body["total_usage"])
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	require.NoError(t, store.IncrementUsage(context.Background(), "a1", "2026-08-30"))
	assert.Equal(t, "a1", inserted.AccountID)
	assert.Equal(t, "2026-08-30", inserted.Date)
	assert.Equal(t, 1, inserted.Count)
}

func TestIncrementUsage_ExistingRowPatches(t *testing.T) {
	var patched int
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/rest/v1/account_usage" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id": 3, "account_id": "a1", "date": "2026-08-30", "count": 4}]`))
		case r.URL.Path == "/rest/v1/account_usage" && r.Method == http.MethodPatch:
			assert.Equal(t, "eq.3", r.URL.Query().Get("id"))
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			patched = body["count"]
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Path == "/rest/v1/test_accounts" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id": "a1", "username": "test01", "password": "pass01",
				"created_at": "2026-08-01T00:00:00Z", "expires_at": "2026-09-30T00:00:00Z",
				"daily_limit": 15, "total_usage": 4, "is_active": true}]`))
		case r.URL.Path == "/rest/v1/test_accounts" && r.Method == http.MethodPatch:
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	require.NoError(t, store.IncrementUsage(context.Background(), "a1", "2026-08-30"))
	assert.Equal(t, 5, patched)
}

func TestGenerateTestAccounts_ProvisionsBatch(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/test_accounts", r.URL.Path)

		var body []accountRow
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 3)
		assert.Equal(t, "test01", body[0].Username)
		assert.Equal(t, "pass03", body[2].Password)
		assert.Equal(t, 15, body[0].DailyLimit)
		assert.True(t, body[0].IsActive)

		out, err := json.Marshal(body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	})

	accounts, err := store.GenerateTestAccounts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "test02", accounts[1].Username)
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(timestampLayout, s)
	require.NoError(t, err)
	return ts
}
