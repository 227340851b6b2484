//go:build integration

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"venue_booking/internal/adapters/auth"
	server "venue_booking/internal/adapters/http_server"
	"venue_booking/internal/adapters/kafka"
	"venue_booking/internal/adapters/pictures"
	redisad "venue_booking/internal/adapters/redis"
	"venue_booking/internal/app"
	"venue_booking/internal/domain"
	mysqlrepo "venue_booking/internal/storage/mysql"
)

const adminKey = "e2e-admin"

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=venue_booking",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/venue_booking?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// newAPI wires the real router over MySQL, miniredis and a temp picture dir.
func newAPI(t *testing.T, db *sql.DB) *httptest.Server {
	t.Helper()
	repo := mysqlrepo.New(db)
	cache := redisad.New(miniredis.RunT(t).Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	fs, err := pictures.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("picture store: %v", err)
	}
	pics := app.NewPictureService(fs, pictures.NewNamer())
	tokens := auth.NewTokens("e2e-secret", time.Hour)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Accounts:       app.NewAccountService(repo, auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens, pics),
		Queries:        app.NewQueryService(repo, repo, cache, time.Minute),
		Venues:         app.NewVenueService(repo, nil, pics, cache),
		Bookings:       app.NewBookingService(repo, repo, kafka.LogNotifier{L: zerolog.Nop()}),
		Events:         app.NewEventService(repo, repo, repo),
		Pictures:       pics,
		Tokens:         tokens,
		AdminKey:       adminKey,
		MaxUploadBytes: 1 << 20,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

type reply struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t    *testing.T
	base string
}

func (c client) call(method, path string, hdr map[string]string, body io.Reader, want int) reply {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	var out reply
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil && err != io.EOF {
		c.t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if res.StatusCode != want {
		c.t.Fatalf("%s %s: status %d (%q), want %d", method, path, res.StatusCode, out.Message, want)
	}
	return out
}

func (c client) sendJSON(method, path, token string, v any, want int) reply {
	c.t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	hdr := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		hdr["Authorization"] = "Bearer " + token
	}
	return c.call(method, path, hdr, bytes.NewReader(b), want)
}

func (c client) login(kind, email string) string {
	c.t.Helper()
	c.sendJSON(http.MethodPost, "/api/v1/"+kind+"/signup", "", map[string]string{
		"name": "E2E", "email": email, "password": "pw", "confirmPassword": "pw",
	}, http.StatusCreated)
	out := c.sendJSON(http.MethodPost, "/api/v1/"+kind+"/login", "", map[string]string{
		"email": email, "password": "pw",
	}, http.StatusOK)
	var s domain.Session
	if err := json.Unmarshal(out.Data, &s); err != nil {
		c.t.Fatalf("decode session: %v", err)
	}
	return s.Token
}

func decode[T any](t *testing.T, r reply) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(r.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
	return v
}

// ---------- the test ----------

func TestHTTP_EndToEnd_VenueBooking(t *testing.T) {
	db := startMySQL(t)
	c := client{t: t, base: newAPI(t, db).URL}

	mgr := c.login("venue-manager", "inam@example.com")
	usr := c.login("user", "ali@example.com")

	// manager lists a venue with a picture
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "The Marquee", "latitude": "33.6889", "longitude": "73.0479", "capacity": "300"} {
		_ = mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("picture", "hall.jpg")
	_, _ = fw.Write([]byte("jpeg"))
	_ = mw.Close()
	venue := decode[domain.Venue](t, c.call(http.MethodPost, "/api/v1/venues", map[string]string{
		"Authorization": "Bearer " + mgr,
		"Content-Type":  mw.FormDataContentType(),
	}, &buf, http.StatusCreated))
	if venue.Status != domain.VenuePending || venue.Picture == nil {
		t.Fatalf("unexpected venue: %+v", venue)
	}

	// pending venues stay out of the public feed until approved
	origin := map[string]float64{"latitude": 33.6844, "longitude": 73.0479}
	if got := decode[[]domain.RankedVenue](t, c.sendJSON(http.MethodPost, "/api/v1/venues/suggest/nearest", "", origin, http.StatusOK)); len(got) != 0 {
		t.Fatalf("pending venue leaked into feed: %+v", got)
	}
	c.sendJSON(http.MethodPost, "/api/v1/admin/venue/change-status", "", map[string]any{"venue_id": venue.ID, "status": 2}, http.StatusUnauthorized)
	c.call(http.MethodPost, "/api/v1/admin/venue/change-status", map[string]string{"X-Admin-Key": adminKey},
		bytes.NewReader([]byte(fmt.Sprintf(`{"venue_id":%d,"status":2}`, venue.ID))), http.StatusOK)

	ranked := decode[[]domain.RankedVenue](t, c.sendJSON(http.MethodPost, "/api/v1/venues/suggest/nearest", "", origin, http.StatusOK))
	if len(ranked) != 1 || ranked[0].ID != venue.ID || ranked[0].Distance != "500m" {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}

	// menu, booking, food order, accept
	venuePath := "/api/v1/venues/" + strconv.FormatInt(venue.ID, 10)
	c.call(http.MethodGet, venuePath, nil, nil, http.StatusOK)

	item := decode[domain.MenuItem](t, c.call(http.MethodPost, "/api/v1/food-menu/"+strconv.FormatInt(venue.ID, 10),
		map[string]string{"Authorization": "Bearer " + mgr, "Content-Type": "application/x-www-form-urlencoded"},
		bytes.NewReader([]byte("name=Biryani&price=450")), http.StatusCreated))

	booking := decode[domain.Booking](t, c.sendJSON(http.MethodPost, venuePath+"/bookings", usr, map[string]string{
		"booking_date": "2025-06-01", "start_time": "2025-06-01T18:00:00Z", "end_time": "2025-06-01T22:00:00Z",
	}, http.StatusCreated))
	bookingPath := "/api/v1/bookings/" + strconv.FormatInt(booking.ID, 10)

	order := map[string]any{"booking_id": booking.ID, "menu_item_ids": map[string]int{strconv.FormatInt(item.ID, 10): 2}}
	c.sendJSON(http.MethodPost, "/api/v1/food-menu/order/save", usr, order, http.StatusCreated)
	c.sendJSON(http.MethodPost, "/api/v1/food-menu/order/save", usr, order, http.StatusCreated)

	c.sendJSON(http.MethodPost, bookingPath+"/accept", usr, nil, http.StatusForbidden)
	c.sendJSON(http.MethodPost, bookingPath+"/accept", mgr, nil, http.StatusOK)

	view := decode[domain.BookingView](t, c.sendJSON(http.MethodGet, bookingPath, mgr, nil, http.StatusOK))
	if view.Status != domain.BookingConfirmed || len(view.FoodOrder) != 1 || view.FoodOrder[0].Quantity != 4 {
		t.Fatalf("unexpected booking: %+v", view)
	}

	requests := decode[[]domain.BookingView](t, c.sendJSON(http.MethodGet, "/api/v1/bookings/requests", mgr, nil, http.StatusOK))
	if len(requests) != 1 || requests[0].UserEmail != "ali@example.com" {
		t.Fatalf("unexpected requests: %+v", requests)
	}

}
