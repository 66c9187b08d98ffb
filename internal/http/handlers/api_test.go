package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/middleware"
	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/models/dto"
	"github.com/digiwallet/wallet-be/internal/storage/sqlite"
)

const testJWTSecret = "wallet-test-secret-wallet-test-secret"

// testEnv runs the full route table against a throwaway SQLite database so
// handler tests exercise the same stack the binary serves.
type testEnv struct {
	t      *testing.T
	server *httptest.Server
	store  *sqlite.Store
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "wallet.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	tokens := auth.NewTokenManager(testJWTSecret, "wallet-backend", time.Hour)

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewAuthHandler(store, tokens).Register(mux)
	NewUserHandler().Register(mux)
	NewBudgetHandler(store).Register(mux)
	NewCategoryHandler(store).Register(mux)
	NewTagHandler(store).Register(mux)
	NewExpenseHandler(store, store).Register(mux)

	server := httptest.NewServer(middleware.Authenticate(tokens, store, mux))
	t.Cleanup(server.Close)

	return &testEnv{t: t, server: server, store: store, tokens: tokens}
}

// do issues a request and decodes the JSON response into out when non-nil.
func (e *testEnv) do(method, path, token string, body, out any) int {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode
}

func (e *testEnv) signup(username string) string {
	e.t.Helper()
	var resp dto.TokenResponse
	status := e.do(http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "s3cret-pass",
	}, &resp)
	require.Equal(e.t, http.StatusOK, status)
	require.NotEmpty(e.t, resp.Token)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var body map[string]string
	status := env.do(http.MethodGet, "/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup("alice")

	var me map[string]any
	status := env.do(http.MethodGet, "/users/me", token, nil, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, "alice@example.com", me["email"])
	// Profile defaults when signup collected no locale.
	assert.Equal(t, "India", me["country"])
	assert.Equal(t, "INR", me["currency"])

	for _, identifier := range []string{"alice", "alice@example.com"} {
		var resp dto.TokenResponse
		status := env.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{
			UsernameOrEmail: identifier,
			Password:        "s3cret-pass",
		}, &resp)
		assert.Equal(t, http.StatusOK, status, "identifier %q", identifier)
		assert.NotEmpty(t, resp.Token)
	}

	status = env.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		UsernameOrEmail: "alice",
		Password:        "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = env.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		UsernameOrEmail: "ghost",
		Password:        "s3cret-pass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSignupDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.signup("alice")

	var body map[string]string
	status := env.do(http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "s3cret-pass",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already in use", body["error"])

	status = env.do(http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "s3cret-pass",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username already in use", body["error"])

	status = env.do(http.MethodPost, "/auth/signup", "", dto.SignupRequest{Email: "x@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/users/me", "/expenses", "/tags", "/categories", "/budgets/current"} {
		status := env.do(http.MethodGet, path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status, "path %s", path)

		status = env.do(http.MethodGet, path, "not.a.token", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status, "path %s with bad token", path)
	}
}

func TestBudgetEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup("alice")

	var first models.Budget
	status := env.do(http.MethodPost, "/budgets", token, dto.BudgetRequest{
		Year: 2024, Month: 3, Amount: 5000,
	}, &first)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 5000, first.Amount, 1e-9)
	assert.InDelta(t, models.DefaultBudgetThreshold, first.Threshold, 1e-9)

	var second models.Budget
	status = env.do(http.MethodPost, "/budgets", token, dto.BudgetRequest{
		Year: 2024, Month: 3, Amount: 6200,
	}, &second)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 6200, second.Amount, 1e-9)

	var fetched models.Budget
	status = env.do(http.MethodGet, "/budgets?year=2024&month=3", token, nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 6200, fetched.Amount, 1e-9)

	status = env.do(http.MethodGet, "/budgets?year=2024&month=4", token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = env.do(http.MethodGet, "/budgets?year=2024", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = env.do(http.MethodPost, "/budgets", token, dto.BudgetRequest{
		Year: 2024, Month: 13, Amount: 100,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCategoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup("alice")

	var food models.Category
	status := env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{Name: "Food"}, &food)
	require.Equal(t, http.StatusOK, status)
	require.NotZero(t, food.ID)

	var groceries models.Category
	status = env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{
		Name: "Groceries", ParentID: &food.ID,
	}, &groceries)
	require.Equal(t, http.StatusOK, status)

	// Two levels only.
	status = env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{
		Name: "Organic", ParentID: &groceries.ID,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	missing := int64(99999)
	status = env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{
		Name: "Orphan", ParentID: &missing,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{Name: "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var all []models.Category
	status = env.do(http.MethodGet, "/categories", token, nil, &all)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, all, 2)

	var top []models.Category
	status = env.do(http.MethodGet, "/categories/main", token, nil, &top)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, top, 1)
	assert.Equal(t, "Food", top[0].Name)
}

func TestTagEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup("alice")

	var created models.Tag
	status := env.do(http.MethodPost, "/tags", token, dto.TagRequest{Name: "workout"}, &created)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, created.IsSystem)

	var tags []models.Tag
	status = env.do(http.MethodGet, "/tags", token, nil, &tags)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, tags, 1)
	assert.Equal(t, "workout", tags[0].Name)

	status = env.do(http.MethodPost, "/tags", token, dto.TagRequest{Name: ""}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExpenseLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup("alice")
	bob := env.signup("bob")

	var category models.Category
	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/categories", alice, dto.CategoryRequest{Name: "Food"}, &category))
	var tag models.Tag
	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/tags", alice, dto.TagRequest{Name: "weekly"}, &tag))

	when := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	var created models.Expense
	status := env.do(http.MethodPost, "/expenses", alice, dto.ExpenseRequest{
		Amount:          12.5,
		TransactionDate: &when,
		CategoryID:      &category.ID,
		TagIDs:          []int64{tag.ID, tag.ID},
		Description:     "market run",
		PaymentType:     "CARD",
	}, &created)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, created.Category)
	assert.Equal(t, category.ID, created.Category.ID)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, tag.ID, created.Tags[0].ID)

	var recent []models.Expense
	status = env.do(http.MethodGet, "/expenses", alice, nil, &recent)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, recent, 1)

	// Bob cannot touch Alice's expense.
	path := fmt.Sprintf("/expenses/%d", created.ID)
	status = env.do(http.MethodPut, path, bob, dto.ExpenseRequest{Amount: 1}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status = env.do(http.MethodDelete, path, bob, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var updated models.Expense
	status = env.do(http.MethodPut, path, alice, dto.ExpenseRequest{
		Amount:      20,
		TagIDs:      []int64{},
		Description: "market run (corrected)",
		PaymentType: "CASH",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 20, updated.Amount, 1e-9)
	assert.Empty(t, updated.Tags)
	assert.Nil(t, updated.Category)

	status = env.do(http.MethodPut, "/expenses/abc", alice, dto.ExpenseRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status = env.do(http.MethodPut, "/expenses/99999", alice, dto.ExpenseRequest{}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = env.do(http.MethodDelete, path, alice, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status = env.do(http.MethodDelete, path, alice, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestExpenseFilterEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup("alice")

	var c1, c2 models.Category
	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{Name: "Food"}, &c1))
	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/categories", token, dto.CategoryRequest{Name: "Transport"}, &c2))
	var tag models.Tag
	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/tags", token, dto.TagRequest{Name: "weekly"}, &tag))

	create := func(month int, categoryID *int64, tagIDs ...int64) int64 {
		when := time.Date(2024, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
		var expense models.Expense
		status := env.do(http.MethodPost, "/expenses", token, dto.ExpenseRequest{
			Amount:          10,
			TransactionDate: &when,
			CategoryID:      categoryID,
			TagIDs:          tagIDs,
			PaymentType:     "CASH",
		}, &expense)
		require.Equal(t, http.StatusOK, status)
		return expense.ID
	}
	e1 := create(1, &c1.ID, tag.ID)
	e2 := create(2, &c2.ID)
	e3 := create(3, &c1.ID)

	list := func(query string) []int64 {
		var expenses []models.Expense
		status := env.do(http.MethodGet, "/expenses/filter"+query, token, nil, &expenses)
		require.Equal(t, http.StatusOK, status, "query %s", query)
		ids := make([]int64, len(expenses))
		for i, e := range expenses {
			ids[i] = e.ID
		}
		return ids
	}

	assert.Equal(t, []int64{e3, e2, e1}, list(""))
	assert.Equal(t, []int64{e3, e2, e1}, list(fmt.Sprintf("?categoryIds=%d,%d", c1.ID, c2.ID)))
	assert.Equal(t, []int64{e3, e1}, list(fmt.Sprintf("?categoryIds=%d", c1.ID)))
	assert.Equal(t, []int64{e1}, list(fmt.Sprintf("?tagIds=%d", tag.ID)))
	// endDate is inclusive of the whole day.
	assert.Equal(t, []int64{e3, e2}, list("?startDate=2024-02-01&endDate=2024-03-10"))
	assert.Equal(t, []int64{e2}, list("?size=1&page=1"))

	status := env.do(http.MethodGet, "/expenses/filter?startDate=tomorrow", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
