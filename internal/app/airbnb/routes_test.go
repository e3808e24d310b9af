package airbnb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sunny17082/Airbnb/internal/cache"
	"github.com/Sunny17082/Airbnb/internal/config"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/health"
	"github.com/Sunny17082/Airbnb/internal/lib/password"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/models"
	"github.com/Sunny17082/Airbnb/internal/rabbitmq"
	authservice "github.com/Sunny17082/Airbnb/internal/services/auth"
	bookingservice "github.com/Sunny17082/Airbnb/internal/services/booking"
	placeservice "github.com/Sunny17082/Airbnb/internal/services/place"
	"github.com/Sunny17082/Airbnb/internal/services/upload"
	"github.com/Sunny17082/Airbnb/internal/session"
)

// memStore — хранилище в памяти с теми же контрактами ошибок, что и Postgres.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	places   map[string]models.Place
	bookings []models.Booking
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]models.User),
		places: make(map[string]models.Place),
	}
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, models.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return &user, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (s *memStore) CreatePlace(_ context.Context, place models.Place) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	place.ID = uuid.NewString()
	s.places[place.ID] = place
	return &place, nil
}

func (s *memStore) GetPlace(_ context.Context, id string) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[id]
	if !ok {
		return nil, models.ErrPlaceNotFound
	}
	return &p, nil
}

func (s *memStore) UpdatePlace(_ context.Context, ownerID string, place models.Place) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.places[place.ID]
	if !ok || current.Owner != ownerID {
		return nil, models.ErrPlaceNotFound
	}
	place.Owner = current.Owner
	s.places[place.ID] = place
	return &place, nil
}

func (s *memStore) ListPlacesByOwner(_ context.Context, ownerID string) ([]*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Place{}
	for _, p := range s.places {
		if p.Owner == ownerID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (s *memStore) ListPlaces(_ context.Context) ([]*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Place{}
	for _, p := range s.places {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (s *memStore) CreateBooking(_ context.Context, b models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[b.PlaceID]; !ok {
		return nil, models.ErrInvalidBooking
	}
	b.ID = uuid.NewString()
	s.bookings = append(s.bookings, b)
	return &b, nil
}

func (s *memStore) ListBookings(_ context.Context, filter models.BookingFilter) ([]*models.BookingWithPlace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.BookingWithPlace{}
	for _, b := range s.bookings {
		if b.UserID != filter.UserID {
			continue
		}
		p := s.places[b.PlaceID]
		out = append(out, &models.BookingWithPlace{Booking: b, Place: &p})
	}
	return out, nil
}

type testServer struct {
	*httptest.Server
	store *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	mr := miniredis.RunT(t)
	redisCache, err := cache.InitServer(context.Background(), config.RedisConnection{
		Address:     mr.Addr(),
		DialTimeout: time.Second,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	uploader, err := upload.New(upload.Config{Dir: t.TempDir(), MaxFiles: 10, MaxSize: 1 << 20, DownloadTimeout: time.Second}, log)
	require.NoError(t, err)

	store := newMemStore()
	sessions := session.New(session.Config{SecretKey: "routes-test-secret"})
	reg := prometheus.NewRegistry()

	r := chi.NewRouter()
	RegisterRoutes(r, log, Deps{
		Auth:       authservice.NewAuthService(store, password.NewHasher(bcrypt.MinCost), sessions),
		Places:     placeservice.NewService(store, redisCache, time.Minute, log),
		Bookings:   bookingservice.NewService(store, rabbitmq.NoopPublisher{}, log),
		Uploader:   uploader,
		Sessions:   sessions,
		Metrics:    metrics.NewCollector(reg),
		Gatherer:   reg,
		Health:     map[string]health.Pinger{"postgres": store, "redis": redisCache},
		UploadsDir: uploader.Dir(),
		CORSOrigin: "http://localhost:5173",
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *testServer) registerAndLogin(t *testing.T, name, email, pw string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/register", "", `{"name":"`+name+`","email":"`+email+`","password":"`+pw+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/login", "", `{"email":"`+email+`","password":"`+pw+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	t.Fatalf("login did not set %s cookie", session.CookieName)
	return ""
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRoutes_ForeignUpdateLeavesPlaceUnchanged(t *testing.T) {
	srv := newTestServer(t)

	ann := srv.registerAndLogin(t, "Ann", "a@x.com", "pw1")
	bob := srv.registerAndLogin(t, "Bob", "b@x.com", "pw2")

	resp := srv.do(t, http.MethodPost, "/places", ann, `{"title":"Flat","address":"Main 1","price":50,"maxGuests":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[models.Place](t, resp)

	resp = srv.do(t, http.MethodPut, "/places", bob, `{"id":"`+created.ID+`","title":"Hijacked","address":"Elsewhere","price":1}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/places/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Place](t, resp)
	assert.Equal(t, "Flat", got.Title)
	assert.Equal(t, "Main 1", got.Address)
	assert.Equal(t, 50, got.Price)
	assert.Equal(t, created.Owner, got.Owner)

	resp = srv.do(t, http.MethodPut, "/places", ann, `{"id":"`+created.ID+`","title":"Loft","address":"Main 1","price":70}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/place/"+created.ID, "", "")
	got = decode[models.Place](t, resp)
	assert.Equal(t, "Loft", got.Title)
	assert.Equal(t, 70, got.Price)
}

func TestRoutes_AuthRequired(t *testing.T) {
	srv := newTestServer(t)

	protected := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/places", `{"title":"t","address":"a"}`},
		{http.MethodPut, "/places", `{"id":"x","title":"t","address":"a"}`},
		{http.MethodGet, "/user-places", ""},
		{http.MethodPost, "/bookings", `{}`},
		{http.MethodGet, "/bookings", ""},
		{http.MethodPost, "/upload-by-link", `{"link":"https://x.com/a.png"}`},
	}

	for _, p := range protected {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			resp := srv.do(t, p.method, p.path, "", p.body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp = srv.do(t, p.method, p.path, "forged.token.value", p.body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	srv.store.mu.Lock()
	defer srv.store.mu.Unlock()
	assert.Empty(t, srv.store.places)
	assert.Empty(t, srv.store.bookings)
}

func TestRoutes_ProfileAndLogout(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/profile", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(body)))

	token := srv.registerAndLogin(t, "Ann", "a@x.com", "pw1")
	resp = srv.do(t, http.MethodGet, "/profile", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[models.Profile](t, resp)
	assert.Equal(t, "Ann", profile.Name)
	assert.Equal(t, "a@x.com", profile.Email)

	resp = srv.do(t, http.MethodGet, "/profile", "tampered", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/logout", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[bool](t, resp))
	var cleared *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestRoutes_RegisterMultibytePassword(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodPost, "/register", "", `{"name":"Ann","email":"a@x.com","password":"`+strings.Repeat("ж", 72)+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errResp := decode[map[string]string](t, resp)
	assert.Equal(t, "field password must be at most 72 bytes", errResp["error"])

	srv.store.mu.Lock()
	assert.Empty(t, srv.store.users)
	srv.store.mu.Unlock()

	// 36 кириллических букв укладываются ровно в 72 байта.
	srv.registerAndLogin(t, "Ann", "a@x.com", strings.Repeat("ж", 36))
}

func TestRoutes_UploadByLinkRejectsInternalHosts(t *testing.T) {
	srv := newTestServer(t)
	token := srv.registerAndLogin(t, "Ann", "a@x.com", "pw1")

	// Адрес самого тестового сервера тоже внутренний.
	for _, link := range []string{srv.URL + "/profile", "http://169.254.169.254/latest/meta-data.png"} {
		resp := srv.do(t, http.MethodPost, "/upload-by-link", token, `{"link":"`+link+`"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, link)
		errResp := decode[map[string]string](t, resp)
		assert.Equal(t, "invalid link", errResp["error"], link)
	}
}

func TestRoutes_BookingsAreScopedToCaller(t *testing.T) {
	srv := newTestServer(t)

	ann := srv.registerAndLogin(t, "Ann", "a@x.com", "pw1")
	bob := srv.registerAndLogin(t, "Bob", "b@x.com", "pw2")

	resp := srv.do(t, http.MethodPost, "/places", ann, `{"title":"Flat","address":"Main 1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	place := decode[models.Place](t, resp)

	body := `{"place":"` + place.ID + `","checkIn":"2025-03-01","checkOut":"2025-03-04","numberOfGuests":2,"name":"Bob","phone":"1","price":150,"user":"someone-else"}`
	resp = srv.do(t, http.MethodPost, "/bookings", bob, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	booking := decode[models.Booking](t, resp)
	assert.NotEqual(t, "someone-else", booking.UserID)

	resp = srv.do(t, http.MethodGet, "/bookings", bob, "")
	bobs := decode[[]map[string]any](t, resp)
	require.Len(t, bobs, 1)
	populated, ok := bobs[0]["place"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Flat", populated["title"])

	resp = srv.do(t, http.MethodGet, "/bookings", ann, "")
	assert.Empty(t, decode[[]map[string]any](t, resp))

	resp = srv.do(t, http.MethodPost, "/bookings", bob, strings.Replace(body, `"checkOut":"2025-03-04"`, `"checkOut":"2025-02-01"`, 1))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutes_Infrastructure(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv.do(t, http.MethodGet, "/places", "", "")
	resp = srv.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	metricsBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metricsBody), "airbnb_http_request_duration_seconds")

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/places", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
