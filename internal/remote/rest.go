package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/models"
)

const (
	recordsTable  = "emotion_logs"
	accountsTable = "test_accounts"
	usageTable    = "account_usage"

	// Fields the trial-account generator provisions.
	defaultDailyLimit   = 15
	accountValidityDays = 30

	// Records inserted before anyone logged in keep the original owner id.
	defaultOwnerID = "guest_001"

	// Client-supplied timestamps keep the user's UTC offset and millisecond
	// precision end to end.
	timestampLayout = "2006-01-02T15:04:05.000-07:00"
)

// RESTStore talks to a PostgREST-style endpoint using a per-project key sent
// both as apikey and bearer token.
type RESTStore struct {
	client *resty.Client
}

func NewRESTStore(baseURL, key string) *RESTStore {
	client := resty.New()
	client.SetBaseURL(baseURL + "/rest/v1")
	client.SetTimeout(15 * time.Second)
	client.SetHeader("apikey", key)
	client.SetHeader("Authorization", "Bearer "+key)
	client.SetHeader("Content-Type", "application/json")
	return &RESTStore{client: client}
}

// flexID accepts both text/uuid and bigint primary keys.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type recordRow struct {
	ID        flexID          `json:"id,omitempty"`
	CreatedAt string          `json:"created_at"`
	UserInput string          `json:"user_input"`
	AIResult  models.Analysis `json:"ai_result"`
	UserID    string          `json:"user_id,omitempty"`
}

func (r recordRow) toRecord() (models.Record, error) {
	ts, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return models.Record{}, fmt.Errorf("bad created_at %q: %w", r.CreatedAt, err)
	}
	analysis := r.AIResult
	if analysis.Kind == "" {
		// Rows written by older clients carry no tag; they were analyzed.
		analysis.Kind = models.AnalysisAnalyzed
	}
	return models.Record{
		ID:        string(r.ID),
		Timestamp: ts,
		UserInput: r.UserInput,
		Analysis:  analysis,
	}, nil
}

type accountRow struct {
	ID         flexID `json:"id,omitempty"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	CreatedAt  string `json:"created_at"`
	ExpiresAt  string `json:"expires_at"`
	DailyLimit int    `json:"daily_limit"`
	TotalUsage int    `json:"total_usage"`
	IsActive   bool   `json:"is_active"`
}

func (r accountRow) toAccount() (*models.Account, error) {
	created, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", r.CreatedAt, err)
	}
	expires, err := time.Parse(time.RFC3339, r.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("bad expires_at %q: %w", r.ExpiresAt, err)
	}
	return &models.Account{
		ID:         string(r.ID),
		Username:   r.Username,
		Password:   r.Password,
		CreatedAt:  created,
		ExpiresAt:  expires,
		DailyLimit: r.DailyLimit,
		TotalUsage: r.TotalUsage,
		IsActive:   r.IsActive,
	}, nil
}

type usageRow struct {
	ID        flexID `json:"id,omitempty"`
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
}

func (s *RESTStore) ListRecent(ctx context.Context, limit int) ([]models.Record, error) {
	var rows []recordRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"order":  "created_at.desc",
			"limit":  fmt.Sprintf("%d", limit),
		}).
		SetResult(&rows).
		Get("/" + recordsTable)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: list: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}

	result := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, nil
}

func (s *RESTStore) Insert(ctx context.Context, rec models.Record, accountID string) (models.Record, error) {
	if accountID == "" {
		accountID = defaultOwnerID
	}
	body := []recordRow{{
		CreatedAt: rec.Timestamp.Format(timestampLayout),
		UserInput: rec.UserInput,
		AIResult:  rec.Analysis,
		UserID:    accountID,
	}}

	var rows []recordRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&rows).
		Post("/" + recordsTable)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: insert: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return models.Record{}, fmt.Errorf("%w: insert: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	if len(rows) == 0 {
		return models.Record{}, fmt.Errorf("%w: insert returned no rows", common.ErrRemoteUnavailable)
	}
	return rows[0].toRecord()
}

func (s *RESTStore) Delete(ctx context.Context, id string) error {
	var rows []recordRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetResult(&rows).
		Delete("/" + recordsTable)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: delete: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	if len(rows) == 0 {
		return fmt.Errorf("delete %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (s *RESTStore) FindAccount(ctx context.Context, username, password string) (*models.Account, error) {
	var rows []accountRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select":    "*",
			"username":  "eq." + username,
			"password":  "eq." + password,
			"is_active": "eq.true",
			"limit":     "1",
		}).
		SetResult(&rows).
		Get("/" + accountsTable)
	if err != nil {
		return nil, fmt.Errorf("%w: find account: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: find account: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	if len(rows) == 0 {
		return nil, common.ErrNotFound
	}
	return rows[0].toAccount()
}

func (s *RESTStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var rows []accountRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"id":     "eq." + id,
			"limit":  "1",
		}).
		SetResult(&rows).
		Get("/" + accountsTable)
	if err != nil {
		return nil, fmt.Errorf("%w: get account: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: get account: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	if len(rows) == 0 {
		return nil, common.ErrNotFound
	}
	return rows[0].toAccount()
}

func (s *RESTStore) getUsageRow(ctx context.Context, accountID, date string) (*usageRow, error) {
	var rows []usageRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select":     "*",
			"account_id": "eq." + accountID,
			"date":       "eq." + date,
			"limit":      "1",
		}).
		SetResult(&rows).
		Get("/" + usageTable)
	if err != nil {
		return nil, fmt.Errorf("%w: get usage: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: get usage: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *RESTStore) GetUsage(ctx context.Context, accountID, date string) (int, error) {
	row, err := s.getUsageRow(ctx, accountID, date)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.Count, nil
}

func (s *RESTStore) IncrementUsage(ctx context.Context, accountID, date string) error {
	row, err := s.getUsageRow(ctx, accountID, date)
	if err != nil {
		return err
	}

	if row == nil {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody([]usageRow{{AccountID: accountID, Date: date, Count: 1}}).
			Post("/" + usageTable)
		if err != nil {
			return fmt.Errorf("%w: insert usage: %v", common.ErrRemoteUnavailable, err)
		}
		if resp.IsError() {
			return fmt.Errorf("%w: insert usage: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
		}
	} else {
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("id", "eq."+string(row.ID)).
			SetBody(map[string]int{"count": row.Count + 1}).
			Patch("/" + usageTable)
		if err != nil {
			return fmt.Errorf("%w: update usage: %v", common.ErrRemoteUnavailable, err)
		}
		if resp.IsError() {
			return fmt.Errorf("%w: update usage: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
		}
	}

	// Lifetime total on the account. Best effort follows the counter write;
	// the caller decides whether a failure here matters.
	acc, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+accountID).
		SetBody(map[string]int{"total_usage": acc.TotalUsage + 1}).
		Patch("/" + accountsTable)
	if err != nil {
		return fmt.Errorf("%w: update total usage: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: update total usage: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	return nil
}

func (s *RESTStore) GenerateTestAccounts(ctx context.Context, n int) ([]models.Account, error) {
	now := time.Now()
	expires := now.AddDate(0, 0, accountValidityDays)

	body := make([]accountRow, 0, n)
	for i := 1; i <= n; i++ {
		body = append(body, accountRow{
			Username:   fmt.Sprintf("test%02d", i),
			Password:   fmt.Sprintf("pass%02d", i),
			CreatedAt:  now.Format(timestampLayout),
			ExpiresAt:  expires.Format(timestampLayout),
			DailyLimit: defaultDailyLimit,
			IsActive:   true,
		})
	}

	var rows []accountRow
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&rows).
		Post("/" + accountsTable)
	if err != nil {
		return nil, fmt.Errorf("%w: generate accounts: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: generate accounts: status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}

	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		acc, err := row.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, nil
}
