package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePoller implements PricePoller for handler tests.
type fakePoller struct {
	snap     domain.PriceSnapshot
	haveSnap bool
	lastErr  string
	refresh  int
}

func (f *fakePoller) Snapshot() (domain.PriceSnapshot, bool) { return f.snap, f.haveSnap }
func (f *fakePoller) LastError() string                      { return f.lastErr }
func (f *fakePoller) TriggerRefresh()                        { f.refresh++ }

// fakeWatchService implements WatchService over a map.
type fakeWatchService struct {
	ranges map[string]string
	err    error
}

func (f *fakeWatchService) Set(_ context.Context, symbol, rangeText string) error {
	if f.err != nil {
		return f.err
	}
	f.ranges[symbol] = rangeText
	return nil
}

func (f *fakeWatchService) All(context.Context) (map[string]string, error) {
	return f.ranges, f.err
}

func (f *fakeWatchService) Delete(_ context.Context, symbol string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.ranges, symbol)
	return nil
}

// fakeTaskService implements TaskService over a slice.
type fakeTaskService struct {
	tasks []domain.Task
	err   error
}

func (f *fakeTaskService) List(context.Context) ([]domain.Task, error) {
	return f.tasks, f.err
}

func (f *fakeTaskService) Add(_ context.Context, description string) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}
	t := domain.Task{ID: "t1", Description: description, CreatedAt: time.Now().UTC()}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeTaskService) Toggle(_ context.Context, id string) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
			return f.tasks[i], nil
		}
	}
	return domain.Task{}, domain.ErrNotFound
}

func (f *fakeTaskService) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// newTestMux registers handler routes the same way the server does so path
// parameters resolve in tests.
func newTestMux(register func(mux *http.ServeMux)) *http.ServeMux {
	mux := http.NewServeMux()
	register(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestGetPrices(t *testing.T) {
	price := 65000.5
	poller := &fakePoller{
		snap: domain.PriceSnapshot{
			Prices:    map[string]*float64{"BTC": &price, "ETH": nil},
			FetchedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		haveSnap: true,
	}
	h := NewPriceHandler(poller, discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("GET /api/prices", h.GetPrices)
	})

	rec := doRequest(t, mux, http.MethodGet, "/api/prices", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Prices    map[string]*float64 `json:"prices"`
		FetchedAt string              `json:"fetched_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2025-06-01T12:00:00Z", resp.FetchedAt)
	require.NotNil(t, resp.Prices["BTC"])
	require.Equal(t, 65000.5, *resp.Prices["BTC"])
	require.Contains(t, resp.Prices, "ETH")
	require.Nil(t, resp.Prices["ETH"])
}

func TestGetPricesBeforeFirstPoll(t *testing.T) {
	h := NewPriceHandler(&fakePoller{}, discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("GET /api/prices", h.GetPrices)
	})

	rec := doRequest(t, mux, http.MethodGet, "/api/prices", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTriggerRefresh(t *testing.T) {
	poller := &fakePoller{}
	h := NewPriceHandler(poller, discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("POST /api/prices/refresh", h.TriggerRefresh)
	})

	rec := doRequest(t, mux, http.MethodPost, "/api/prices/refresh", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, poller.refresh)
}

func TestSetWatch(t *testing.T) {
	svc := &fakeWatchService{ranges: map[string]string{}}
	h := NewWatchHandler(svc, discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("PUT /api/watches/{symbol}", h.SetWatch)
	})

	rec := doRequest(t, mux, http.MethodPut, "/api/watches/BTC", `{"range":"60000-70000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "60000-70000", svc.ranges["BTC"])
}

func TestSetWatchErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       string
		wantStatus int
	}{
		{"unknown symbol", domain.ErrUnknownSymbol, `{"range":"1-2"}`, http.StatusNotFound},
		{"invalid range", domain.ErrInvalidRange, `{"range":"oops"}`, http.StatusBadRequest},
		{"malformed body", nil, `{"range":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeWatchService{ranges: map[string]string{}, err: tt.err}
			h := NewWatchHandler(svc, discardLogger())
			mux := newTestMux(func(m *http.ServeMux) {
				m.HandleFunc("PUT /api/watches/{symbol}", h.SetWatch)
			})

			rec := doRequest(t, mux, http.MethodPut, "/api/watches/BTC", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeleteWatch(t *testing.T) {
	svc := &fakeWatchService{ranges: map[string]string{"BTC": "1-2"}}
	h := NewWatchHandler(svc, discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("DELETE /api/watches/{symbol}", h.DeleteWatch)
	})

	rec := doRequest(t, mux, http.MethodDelete, "/api/watches/BTC", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, svc.ranges)
}

func TestTaskLifecycle(t *testing.T) {
	svc := &fakeTaskService{}
	h := NewTaskHandler(svc, discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("GET /api/tasks", h.ListTasks)
		m.HandleFunc("POST /api/tasks", h.AddTask)
		m.HandleFunc("POST /api/tasks/{id}/toggle", h.ToggleTask)
		m.HandleFunc("DELETE /api/tasks/{id}", h.DeleteTask)
	})

	rec := doRequest(t, mux, http.MethodPost, "/api/tasks", `{"description":"check charts"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "check charts", created.Description)

	rec = doRequest(t, mux, http.MethodPost, "/api/tasks/"+created.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	require.True(t, toggled.Completed)

	rec = doRequest(t, mux, http.MethodDelete, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, mux, http.MethodPost, "/api/tasks/"+created.ID+"/toggle", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComputePips(t *testing.T) {
	h := NewCalcHandler(discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("POST /api/calc/pips", h.ComputePips)
	})

	body := `{"stop_loss":"1.10000","entry":"1.10500","take_profit":"1.12000","decimal_places":5}`
	rec := doRequest(t, mux, http.MethodPost, "/api/calc/pips", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Risk   float64 `json:"pips_of_risk"`
		Reward float64 `json:"pips_of_reward"`
		Ratio  float64 `json:"risk_reward_ratio"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 500, resp.Risk, 1e-6)
	require.InDelta(t, 1500, resp.Reward, 1e-6)
	require.InDelta(t, 3.0, resp.Ratio, 1e-6)
}

func TestComputePipsRejectsBadInput(t *testing.T) {
	h := NewCalcHandler(discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("POST /api/calc/pips", h.ComputePips)
	})

	body := `{"stop_loss":"","entry":"1.10500","take_profit":"1.12000","decimal_places":5}`
	rec := doRequest(t, mux, http.MethodPost, "/api/calc/pips", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestComputePosition(t *testing.T) {
	h := NewCalcHandler(discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("POST /api/calc/position", h.ComputePosition)
	})

	body := `{"account_balance":"10000","entry":"100","stop_loss":"95","risk_percent":"2","take_profit":"115"}`
	rec := doRequest(t, mux, http.MethodPost, "/api/calc/position", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp positionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 40, resp.PositionSize, 1e-6)
	require.NotNil(t, resp.RiskReward)
	require.InDelta(t, 3.0, *resp.RiskReward, 1e-6)
}

func TestComputePositionWithoutTakeProfit(t *testing.T) {
	h := NewCalcHandler(discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("POST /api/calc/position", h.ComputePosition)
	})

	body := `{"account_balance":"10000","entry":"100","stop_loss":"95","risk_percent":"2","take_profit":""}`
	rec := doRequest(t, mux, http.MethodPost, "/api/calc/position", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp positionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.RiskReward)
}

func TestNextMeetingEndpoint(t *testing.T) {
	h := NewFomcHandler()
	h.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("GET /api/fomc", h.NextMeeting)
	})

	rec := doRequest(t, mux, http.MethodGet, "/api/fomc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Label string `json:"label"`
		Year  int    `json:"year"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "FOMC: Mar 18-19", resp.Label)
	require.Equal(t, 2025, resp.Year)
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(discardLogger())
	mux := newTestMux(func(m *http.ServeMux) {
		m.HandleFunc("GET /api/health", h.HealthCheck)
	})

	rec := doRequest(t, mux, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}
