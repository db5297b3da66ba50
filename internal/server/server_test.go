package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/config"
	"github.com/Rina-ui/Front-TP-JEE/internal/gate"
	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/gql/gqltest"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/metrics"
	"github.com/Rina-ui/Front-TP-JEE/internal/middleware"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/memory"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t      *testing.T
	api    *gqltest.Server
	url    string
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := gqltest.NewServer(t)
	routes, err := gate.DefaultTable()
	require.NoError(t, err)

	cfg := config.Config{
		ContextSecret:      "test-secret",
		ContextIssuer:      "test",
		ContextTTL:         time.Hour,
		CORSOrigins:        []string{"*"},
		HTTPTimeout:        5 * time.Second,
		DashboardFanOut:    4,
		LoginRatePerMinute: 100,
	}
	deps := Deps{
		KV:      memory.NewStore(),
		Clients: bank.New(gql.NewClient(api.URL, nil, logger.Nop()), logger.Nop()),
		Routes:  routes,
		Metrics: metrics.New(),
	}
	ts := httptest.NewServer(Handler(cfg, deps, logger.Nop()))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		t:   t,
		api: api,
		url: ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) do(method, path string, body any) (*http.Response, envelope) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.url+path, &buf)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func (h *harness) signIn(role, id string) envelope {
	h.t.Helper()
	h.api.Respond("Login", map[string]any{"login": map[string]any{
		"token": "tok-" + id,
		"user":  map[string]any{"id": id, "email": id + "@bank.test", "role": role},
	}})
	resp, env := h.do(http.MethodPost, "/login", map[string]string{"email": id + "@bank.test", "password": "secret1"})
	require.Equal(h.t, http.StatusOK, resp.StatusCode, env.Message)
	return env
}

func (h *harness) contextCookie() *http.Cookie {
	h.t.Helper()
	u, err := url.Parse(h.url)
	require.NoError(h.t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == middleware.ContextCookie {
			return c
		}
	}
	return nil
}

func TestAnonymousIsSentToSignIn(t *testing.T) {
	h := newHarness(t)

	resp, env := h.do(http.MethodGet, "/admin/dashboard", nil)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, gate.SignInPath, resp.Header.Get("Location"))
	assert.JSONEq(t, `{"redirect":"/login"}`, string(env.Data))
	assert.Empty(t, h.api.Calls("GetAllComptes"))
}

func TestClientSignInLandsOnClientDashboard(t *testing.T) {
	h := newHarness(t)
	env := h.signIn("CLIENT", "c1")

	var result struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "/client/dashboard", result.Redirect)

	resp, _ := h.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))

	h.api.Respond("GetComptesByClient", map[string]any{"getComptesByClient": []map[string]any{
		{"id": "1", "accountNumber": "CPT-1", "sold": 250.5, "typeCompte": "EPARGNE", "actif": true},
	}})
	h.api.Respond("GetAllTransactions", map[string]any{"getAllTransactions": []map[string]any{}})
	resp, env = h.do(http.MethodGet, "/client/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var snap struct {
		State        string  `json:"state"`
		TotalBalance float64 `json:"totalBalance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "aggregated", snap.State)
	assert.Equal(t, 250.5, snap.TotalBalance)

	calls := h.api.Calls("GetComptesByClient")
	require.Len(t, calls, 1)
	assert.Equal(t, "c1", calls[0].Variables["clientId"])
	assert.Equal(t, "Bearer tok-c1", calls[0].Header.Get("Authorization"))
	assert.Equal(t, "no-cache", calls[0].Header.Get("Cache-Control"))
}

func TestAdminDashboardTotals(t *testing.T) {
	h := newHarness(t)
	assert.JSONEq(t, `{"user":{"id":"a1","email":"a1@bank.test","role":"ADMIN"},"redirect":"/admin/dashboard"}`,
		string(h.signIn("ADMIN", "a1").Data))
	h.api.Respond("GetAllComptes", map[string]any{"getAllComptes": []map[string]any{
		{"id": "1", "accountNumber": "CPT-1", "sold": 8672.20, "typeCompte": "COURANT", "actif": true, "clientId": "c1"},
		{"id": "2", "accountNumber": "CPT-2", "sold": 3785.35, "typeCompte": "EPARGNE", "actif": true, "clientId": "c2"},
	}})
	h.api.Respond("GetAllClients", map[string]any{"getAllClients": []map[string]any{
		{"id": "c1", "email": "a@x.y", "role": "CLIENT"},
		{"id": "c2", "email": "b@x.y", "role": "CLIENT"},
	}})
	h.api.Respond("GetAllTransactions", map[string]any{"getAllTransactions": []map[string]any{}})

	resp, env := h.do(http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var snap struct {
		TotalBalance float64 `json:"totalBalance"`
		ClientCount  int     `json:"clientCount"`
		AccountCount int     `json:"accountCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.InDelta(t, 12457.55, snap.TotalBalance, 1e-9)
	assert.Equal(t, 2, snap.ClientCount)
	assert.Equal(t, 2, snap.AccountCount)
}

func TestDashboardAccountFailureIsBadGateway(t *testing.T) {
	h := newHarness(t)
	h.signIn("AGENT", "g1")
	h.api.Fail("GetAllComptes", "boom")
	h.api.Respond("GetAllClients", map[string]any{"getAllClients": []map[string]any{}})

	resp, env := h.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var snap struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "failed", snap.State)
}

func TestInvalidSignInNeverReachesTheNetwork(t *testing.T) {
	h := newHarness(t)

	resp, env := h.do(http.MethodPost, "/login", map[string]string{"email": "not-an-email", "password": "123"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data.Fields, "email")
	assert.Contains(t, data.Fields, "password")
	assert.Empty(t, h.api.Calls("Login"))
}

func TestRejectedSignInIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.api.Fail("Login", "bad credentials")

	resp, _ := h.do(http.MethodPost, "/login", map[string]string{"email": "a@b.co", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")

	resp, env := h.do(http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"c1","email":"c1@bank.test","role":"CLIENT"}`, string(env.Data))

	resp, _ = h.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, gate.SignInPath, resp.Header.Get("Location"))

	resp, env = h.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"signedIn":false}`, string(env.Data))
}

func TestTransferToSameAccountIsRejected(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")

	resp, env := h.do(http.MethodPost, "/transactions/transfer", map[string]any{
		"sourceAccountNumber":      "CPT-1",
		"destinationAccountNumber": "CPT-1",
		"amount":                   10,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(env.Data), "destinationAccountNumber")
	assert.Empty(t, h.api.Calls("Virement"))
}

func TestDepositReturnsServerRecord(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")
	h.api.Respond("Versement", map[string]any{"versement": map[string]any{
		"id": "t1", "type": "DEPOT", "montant": 3500, "dateTransaction": "2026-10-01T08:00:00", "soldeApres": 3750.5,
	}})

	resp, env := h.do(http.MethodPost, "/transactions/deposit", map[string]any{"accountNumber": "CPT-1", "amount": 3500})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var tx struct {
		Kind         string  `json:"kind"`
		BalanceAfter float64 `json:"balanceAfter"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, "DEPOSIT", tx.Kind)
	assert.Equal(t, 3750.5, tx.BalanceAfter)
}

func TestNullPayloadIsBadGateway(t *testing.T) {
	h := newHarness(t)
	h.signIn("ADMIN", "a1")
	h.api.Respond("GetAllComptes", map[string]any{"getAllComptes": nil})

	resp, _ := h.do(http.MethodGet, "/comptes", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestClientCannotReachDirectory(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")

	resp, _ := h.do(http.MethodDelete, "/clients/c2", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, h.api.Calls("DeleteClient"))
}

func TestLocalIncome(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")

	resp, env := h.do(http.MethodPost, "/client/income", map[string]any{"label": "freelance", "amount": 120.5, "date": "2026-09-30"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var entry struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entry))

	resp, env = h.do(http.MethodGet, "/client/income", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Entries []json.RawMessage `json:"entries"`
		Total   float64           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Entries, 1)
	assert.Equal(t, 120.5, list.Total)

	resp, _ = h.do(http.MethodDelete, "/client/income/"+entry.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = h.do(http.MethodDelete, "/client/income/"+entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthNeedsNoContext(t *testing.T) {
	h := newHarness(t)

	resp, env := h.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", env.Message)
	assert.Empty(t, resp.Cookies())
}

func TestSignInRotatesContextCookie(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	planted := h.contextCookie()
	require.NotNil(t, planted)

	h.signIn("CLIENT", "c1")
	current := h.contextCookie()
	require.NotNil(t, current)
	assert.NotEqual(t, planted.Value, current.Value)

	resp, _ = h.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, h.url+"/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.ContextCookie, Value: planted.Value})
	stale, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer stale.Body.Close()
	assert.Equal(t, http.StatusSeeOther, stale.StatusCode)
}

func TestSignInKeepsLocalIncome(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")
	resp, env := h.do(http.MethodPost, "/client/income", map[string]any{"label": "freelance", "amount": 40})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = h.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h.signIn("CLIENT", "c1")

	resp, env = h.do(http.MethodGet, "/client/income", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 40.0, list.Total)
}

func TestTransactionHistory(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")
	h.api.Respond("GetAllTransactions", map[string]any{"getAllTransactions": []map[string]any{
		{"id": "t1", "type": "DEPOT", "montant": 3500, "dateTransaction": "2026-10-01T08:00:00", "soldeApres": 3750.5},
	}})
	h.api.Respond("GetAllComptes", map[string]any{"getAllComptes": []map[string]any{
		{"id": "1", "accountNumber": "CPT-1", "sold": 3750.5, "typeCompte": "COURANT", "actif": true, "clientId": "c1"},
	}})

	resp, env := h.do(http.MethodGet, "/transactions?numeroCompte=CPT-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var history struct {
		Account *struct {
			AccountNumber string  `json:"accountNumber"`
			Balance       float64 `json:"balance"`
		} `json:"account"`
		Transactions []struct {
			ID string `json:"id"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.NotNil(t, history.Account)
	assert.Equal(t, "CPT-1", history.Account.AccountNumber)
	require.Len(t, history.Transactions, 1)
	assert.Equal(t, "t1", history.Transactions[0].ID)
}

func TestTransactionHistorySurvivesAccountLookupFailure(t *testing.T) {
	h := newHarness(t)
	h.signIn("CLIENT", "c1")
	h.api.Respond("GetAllTransactions", map[string]any{"getAllTransactions": []map[string]any{
		{"id": "t1", "type": "DEPOT", "montant": 3500, "dateTransaction": "2026-10-01T08:00:00", "soldeApres": 3750.5},
	}})
	h.api.Fail("GetAllComptes", "forbidden")

	resp, env := h.do(http.MethodGet, "/transactions?numeroCompte=CPT-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var history map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.NotContains(t, history, "account")
	var txs []json.RawMessage
	require.NoError(t, json.Unmarshal(history["transactions"], &txs))
	assert.Len(t, txs, 1)
	assert.Len(t, h.api.Calls("GetAllTransactions"), 1)
}
