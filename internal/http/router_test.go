package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/find-teacher-training/search/internal/cache"
	"github.com/find-teacher-training/search/internal/config"
	"github.com/find-teacher-training/search/internal/geocode"
	"github.com/find-teacher-training/search/internal/teachertraining"
)

type staticGeocoder struct{}

func (staticGeocoder) Geocode(context.Context, string) (geocode.Result, error) {
	return geocode.Result{Lat: 53.8008, Lng: -1.5491, DisplayName: "Leeds"}, nil
}

func newTestRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := config.Config{CORSAllowed: "*", CurrentCycle: "2020", ResultsPerPage: 10, DefaultRadius: 50}
	client := teachertraining.New(srv.URL, time.Second, cache.NewMemory(time.Minute, time.Minute), time.Minute, zerolog.Nop())
	return Router(cfg, client, staticGeocoder{}, zerolog.Nop())
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

// browser replays redirects the way a user agent would, keeping the cookies
// each response sets.
type browser struct {
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(r *gin.Engine) *browser {
	return &browser{r: r, cookies: map[string]*http.Cookie{}}
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.r.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) follow(t *testing.T, w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	return b.get(w.Header().Get("Location"))
}

type filterPage struct {
	Error *struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"error"`
	StartWizard bool                `json:"start_wizard"`
	Params      map[string][]string `json:"params"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) filterPage {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var page filterPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return page
}

func TestRouterServesSuggestionsFromUpstream(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/recruitment_cycles/2020/provider_suggestions" {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"1","type":"provider_suggestions","attributes":{"code":"1AB","name":"ACME SCITT"}}]}`))
	})

	w := get(r, "/provider-suggestions?query=acme")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `[{"code":"1AB","name":"ACME SCITT"}]` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterProviderFilterRedirectsOnSingleMatch(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"1","type":"provider_suggestions","attributes":{"code":"1AB","name":"ACME SCITT"}}]}`))
	})

	w := get(r, "/results/filter/provider?query=acme&prev_query=ac&l=3")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/results?l=3&query=ACME+SCITT" {
		t.Fatalf("unexpected location: %s", loc)
	}
}

func TestRouterLocationSubmit(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	})

	w := get(r, "/results/filter/location/submit?l=1&lq=Leeds")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	want := "/results?l=1&lat=53.8008&lng=-1.5491&loc=Leeds&lq=Leeds&rad=50&sortby=2"
	if loc := w.Header().Get("Location"); loc != want {
		t.Fatalf("unexpected location: %s", loc)
	}
}

func TestRouterUpstreamDownIs502(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if w := get(r, "/results"); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if w := get(r, "/healthz"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRouterMetricsAndSwagger(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_ = get(r, "/healthz")

	w := get(r, "/metrics")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "search_http_requests_total") {
		t.Fatalf("expected request metrics, got %d", w.Code)
	}

	w = get(r, "/swagger/doc.json")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/provider-suggestions") {
		t.Fatalf("expected swagger document, got %d", w.Code)
	}
}

func TestRouterRedirectBackShowsFieldError(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	b := newBrowser(r)

	w := b.get("/results/filter/provider?query=")
	if loc := w.Header().Get("Location"); loc != "/results/filter/location" {
		t.Fatalf("unexpected location: %s", loc)
	}
	page := decodePage(t, b.follow(t, w))
	if page.Error == nil || page.Error.Field != "provider" || page.Error.Message != "blank_provider" {
		t.Fatalf("expected blank_provider error, got %+v", page)
	}
	if page.StartWizard {
		t.Fatalf("expected no wizard flag")
	}

	page = decodePage(t, b.get("/results/filter/location"))
	if page.Error != nil {
		t.Fatalf("expected flash to be consumed, got %+v", page.Error)
	}
}

func TestRouterWizardReturnsToRoot(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	b := newBrowser(r)

	page := decodePage(t, b.follow(t, b.get("/start?l=2")))
	if !page.StartWizard || page.Error != nil {
		t.Fatalf("expected wizard page, got %+v", page)
	}
	if got := page.Params["l"]; len(got) != 1 || got[0] != "2" {
		t.Fatalf("unexpected params: %v", page.Params)
	}

	w := b.get("/results/filter/location/submit?l=3&query=zz")
	if loc := w.Header().Get("Location"); loc != "/results/filter/provider?l=3&query=zz" {
		t.Fatalf("unexpected location: %s", loc)
	}
	w = b.follow(t, w)
	if loc := w.Header().Get("Location"); loc != "/?l=3&query=zz" {
		t.Fatalf("expected wizard to return to root, got %s", loc)
	}
	page = decodePage(t, b.follow(t, w))
	if page.Error == nil || page.Error.Message != "missing_provider" || !page.StartWizard {
		t.Fatalf("unexpected root page: %+v", page)
	}
}
