package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"countries_app_echo/internal/countries"
	"countries_app_echo/internal/home"
	"countries_app_echo/internal/middleware"
	"countries_app_echo/internal/models"
	"countries_app_echo/internal/session"
)

type firstRandom struct{}

func (firstRandom) IntN(int) int { return 0 }

type testApp struct {
	e     *echo.Echo
	store *session.MemoryStore
	pages *home.Registry
}

func newTestApp(t *testing.T, fetcher home.Fetcher) *testApp {
	t.Helper()
	log := zap.NewNop()

	store := session.NewMemoryStore()
	sessions := session.NewManager(store, session.Config{TTL: time.Hour}, log)
	pages := home.NewRegistry(fetcher, home.Options{Random: firstRandom{}}, log)
	t.Cleanup(pages.Close)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewErrorHandler(log)
	RegisterRoutes(e, sessions, NewAuthHandler(sessions, pages, log), NewHomeHandler(pages, log))

	return &testApp{e: e, store: store, pages: pages}
}

func (a *testApp) do(method, target string, form url.Values, cookies []*http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// login performs a valid login and returns the session cookie.
func (a *testApp) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/auth/login", url.Values{"username": {"alice"}, "password": {"Abcdefg1"}}, nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/home", rec.Header().Get(echo.HeaderLocation))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// mount opens a home page and waits for its fetch to settle.
func (a *testApp) mount(t *testing.T, cookies []*http.Cookie) string {
	t.Helper()
	rec := a.do(http.MethodGet, "/home", nil, cookies, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)
	require.True(t, strings.HasPrefix(location, "/home/"))

	page, ok := a.pages.Get(strings.TrimPrefix(location, "/home/"))
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, page.Wait(ctx))
	return location
}

func staticFetcher(list []models.Country) home.Fetcher {
	return home.FetchFunc(func(context.Context) countries.FetchResult { return countries.Succeeded(list) })
}

func sampleCountries() []models.Country {
	list := []models.Country{
		{Name: "France", Region: "Europe", Flag: "fr.svg"},
		{Name: "India", Region: "Asia", Flag: "in.svg"},
		{Name: "Japan", Region: "Asia", Flag: "jp.svg"},
	}
	for _, name := range []string{"Spain", "Italy", "Greece", "Norway", "Poland"} {
		list = append(list, models.Country{Name: name, Region: "Europe", Flag: name + ".svg"})
	}
	return list
}

func TestLoginPage(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))
	rec := app.do(http.MethodGet, "/login", nil, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign In")
}

func TestHandleLogin_Validation(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		expected string
	}{
		{
			name:     "missing password",
			form:     url.Values{"username": {"alice"}},
			expected: "Username and password are required.",
		},
		{
			name:     "missing username with weak password",
			form:     url.Values{"password": {"abc"}},
			expected: "Username and password are required.",
		},
		{
			name:     "weak password",
			form:     url.Values{"username": {"alice"}, "password": {"abc"}, "remember": {"on"}},
			expected: "Password must be at least 8 characters, contain 1 uppercase letter and 1 number.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, staticFetcher(nil))
			rec := app.do(http.MethodPost, "/auth/login", tt.form, nil, nil)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expected)
			assert.Empty(t, rec.Result().Cookies(), "no marker on failed validation")
			assert.Equal(t, 0, app.store.Len())
		})
	}
}

func TestHandleLogin_KeepsFormState(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))
	rec := app.do(http.MethodPost, "/auth/login", url.Values{"username": {"alice"}, "password": {"secretpw"}, "remember": {"true"}}, nil, nil)

	body := rec.Body.String()
	assert.Contains(t, body, `value="alice"`)
	assert.Contains(t, body, " checked")
	assert.NotContains(t, body, "secretpw")
}

func TestHandleLogin_Success(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))
	app.login(t)
	assert.Equal(t, 1, app.store.Len())
}

func TestHandleLogin_DataStarRedirect(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))
	rec := app.do(http.MethodPost, "/auth/login",
		url.Values{"username": {"alice"}, "password": {"Abcdefg1"}}, nil,
		map[string]string{"Datastar-Request": "true"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/event-stream")
	assert.Contains(t, rec.Body.String(), "/home")
}

func TestHome_RequiresSession(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))

	rec := app.do(http.MethodGet, "/home", nil, nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 0, app.pages.Len())
}

func TestHome_FullFlow(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))
	cookies := app.login(t)
	location := app.mount(t, cookies)

	rec := app.do(http.MethodGet, location, nil, cookies, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "WELCOME")
	assert.Contains(t, body, "in.svg", "India is the initial slider")
	assert.Contains(t, body, "Load more")
	assert.NotContains(t, body, `value="Norway"`)

	rec = app.do(http.MethodPost, location+"/more", url.Values{}, cookies, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get(echo.HeaderLocation))

	body = app.do(http.MethodGet, location, nil, cookies, nil).Body.String()
	assert.Contains(t, body, `value="Poland"`)
	assert.NotContains(t, body, "Load more")

	rec = app.do(http.MethodPost, location+"/region", url.Values{"region": {"Asia"}}, cookies, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	body = app.do(http.MethodGet, location, nil, cookies, nil).Body.String()
	assert.Contains(t, body, `value="Japan"`)
	assert.NotContains(t, body, `name="name" value="France"`)

	rec = app.do(http.MethodPost, location+"/select", url.Values{"name": {"Japan"}}, cookies, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	page, ok := app.pages.Get(strings.TrimPrefix(location, "/home/"))
	require.True(t, ok)
	snap := page.Snapshot()
	assert.Equal(t, "Japan", snap.Slider.Name)
	assert.Equal(t, "France", snap.Featured.Name)
	assert.Equal(t, "Asia", snap.Region)
	assert.Equal(t, countries.PageSize, snap.Cursor)
}

func TestHome_DataStarPatch(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))
	cookies := app.login(t)
	location := app.mount(t, cookies)

	rec := app.do(http.MethodPost, location+"/more", url.Values{}, cookies,
		map[string]string{"Datastar-Request": "true"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/event-stream")
	assert.Contains(t, rec.Body.String(), "home-content")
	assert.Contains(t, rec.Body.String(), "Poland")
}

func TestHome_InvalidActions(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))
	cookies := app.login(t)
	location := app.mount(t, cookies)

	rec := app.do(http.MethodPost, location+"/region", url.Values{"region": {"Africa"}}, cookies, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, location+"/select", url.Values{"name": {"Atlantis"}}, cookies, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/home/does-not-exist", nil, cookies, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "This page has expired.")
}

func TestHome_PageBelongsToSession(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))
	owner := app.login(t)
	location := app.mount(t, owner)

	other := app.login(t)
	rec := app.do(http.MethodGet, location, nil, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHome_FetchFailureRendersEmpty(t *testing.T) {
	failing := home.FetchFunc(func(context.Context) countries.FetchResult {
		return countries.Failed(errors.New("connection refused"))
	})
	app := newTestApp(t, failing)
	cookies := app.login(t)
	location := app.mount(t, cookies)

	rec := app.do(http.MethodGet, location, nil, cookies, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No country selected")
	assert.NotContains(t, body, "country-card")
	assert.NotContains(t, body, "spinner-border")
	assert.NotContains(t, body, "alert")
}

func TestHome_WaitRedirectsPlainClients(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))
	cookies := app.login(t)
	location := app.mount(t, cookies)

	rec := app.do(http.MethodGet, location+"/wait", nil, cookies, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get(echo.HeaderLocation))
}

func TestHome_WaitPatchesDataStarClients(t *testing.T) {
	release := make(chan struct{})
	gated := home.FetchFunc(func(ctx context.Context) countries.FetchResult {
		select {
		case <-release:
			return countries.Succeeded(sampleCountries())
		case <-ctx.Done():
			return countries.Failed(ctx.Err())
		}
	})
	app := newTestApp(t, gated)
	cookies := app.login(t)

	rec := app.do(http.MethodGet, "/home", nil, cookies, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)

	rec = app.do(http.MethodGet, location, nil, cookies, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-init="@get('`+location+`/wait')"`)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- app.do(http.MethodGet, location+"/wait", nil, cookies,
			map[string]string{"Datastar-Request": "true"})
	}()

	select {
	case <-done:
		t.Fatal("wait returned before the fetch settled")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	select {
	case rec = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after the fetch settled")
	}
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/event-stream")
	body := rec.Body.String()
	assert.Contains(t, body, `id="home-content"`)
	assert.Contains(t, body, "India")
	assert.NotContains(t, body, "spinner-border")
	assert.NotContains(t, body, "data-init")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, staticFetcher(sampleCountries()))
	cookies := app.login(t)
	location := app.mount(t, cookies)
	require.Equal(t, 1, app.pages.Len())

	rec := app.do(http.MethodPost, "/auth/logout", nil, cookies, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 0, app.store.Len(), "marker cleared")
	assert.Equal(t, 0, app.pages.Len(), "home pages torn down")

	rec = app.do(http.MethodGet, location, nil, cookies, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestLogout_Idempotent(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))

	for range 2 {
		rec := app.do(http.MethodPost, "/auth/logout", nil, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRoot_RedirectsHome(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))
	rec := app.do(http.MethodGet, "/", nil, nil, nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get(echo.HeaderLocation))
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, staticFetcher(nil))
	rec := app.do(http.MethodGet, "/register", nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
}
