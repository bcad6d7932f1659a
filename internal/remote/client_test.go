package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		origin  string
		wantErr bool
	}{
		{name: "plain origin", baseURL: "http://localhost:4000", origin: "http://localhost:4000"},
		{name: "path is dropped", baseURL: "https://api.example.com/v1/", origin: "https://api.example.com"},
		{name: "surrounding space", baseURL: "  http://10.0.2.2:4000 ", origin: "http://10.0.2.2:4000"},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrBadRequest) {
					t.Errorf("NewClient() error = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if c.Origin() != tt.origin {
				t.Errorf("Origin() = %q, want %q", c.Origin(), tt.origin)
			}
		})
	}
}

func TestNormalizeImageURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://10.0.2.2:4000"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"/uploads/x.jpg", "http://10.0.2.2:4000/uploads/x.jpg"},
		{"uploads/x.jpg", "http://10.0.2.2:4000/uploads/x.jpg"},
		{"https://cdn/x.jpg", "https://cdn/x.jpg"},
		{"http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := c.NormalizeImageURL(tt.in); got != tt.want {
				t.Errorf("NormalizeImageURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	var gotPath, gotQuery string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "ok",
			"data": []map[string]any{
				{
					"id": 31, "food_id": 7, "name": "Apple", "calories": 52.4,
					"unit": "", "amount": 1.5, "meal_type": "breakfast",
					"record_date": "2024-01-01T00:00:00.000Z", "image_url": "/uploads/apple.jpg",
				},
				{
					"id": "32", "food_id": "8", "name": "Mystery", "calories": -3,
					"unit": "piece", "amount": 0, "meal_type": "brunch",
					"record_date": "not a date", "image_url": nil,
				},
			},
		})
	})
	fixed := time.Date(2030, 6, 1, 12, 0, 0, 0, time.Local)
	c.now = func() time.Time { return fixed }

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	lunch := models.MealLunch
	records, err := c.Fetch(context.Background(), 5, &date, &lunch)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotPath != "/api/meal-records/5" {
		t.Errorf("path = %q, want /api/meal-records/5", gotPath)
	}
	if gotQuery != "date=2024-01-01&meal_type=lunch" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(records) != 2 {
		t.Fatalf("Fetch() returned %d records, want 2", len(records))
	}

	apple := records[0]
	if apple.ServerID == nil || *apple.ServerID != 7 {
		t.Errorf("ServerID = %v, want 7", apple.ServerID)
	}
	if apple.EntryID == nil || *apple.EntryID != 31 {
		t.Errorf("EntryID = %v, want 31", apple.EntryID)
	}
	if apple.Calories != 52 || apple.Unit != "g" {
		t.Errorf("calories/unit = %d/%q, want 52/g", apple.Calories, apple.Unit)
	}
	if apple.Amount == nil || *apple.Amount != 1.5 {
		t.Errorf("Amount = %v, want 1.5", apple.Amount)
	}
	if apple.MealType == nil || *apple.MealType != models.MealBreakfast {
		t.Errorf("MealType = %v, want breakfast", apple.MealType)
	}
	if want := srv.URL + "/uploads/apple.jpg"; apple.ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", apple.ImageURL, want)
	}
	if apple.Date.Equal(fixed) || apple.Date.Hour() != 0 {
		t.Errorf("Date = %v, want the parsed calendar day at midnight", apple.Date)
	}

	mystery := records[1]
	if mystery.ServerID == nil || *mystery.ServerID != 8 || *mystery.EntryID != 32 {
		t.Errorf("string ids not parsed: %v %v", mystery.ServerID, mystery.EntryID)
	}
	if mystery.Calories != 0 {
		t.Errorf("Calories = %d, want negative clamped to 0", mystery.Calories)
	}
	if mystery.Amount != nil {
		t.Errorf("Amount = %v, want nil for non-positive amount", *mystery.Amount)
	}
	if *mystery.MealType != models.MealBreakfast {
		t.Errorf("MealType = %s, want breakfast fallback", *mystery.MealType)
	}
	if !mystery.Date.Equal(fixed) {
		t.Errorf("Date = %v, want fallback %v", mystery.Date, fixed)
	}
	if mystery.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty", mystery.ImageURL)
	}
	if apple.LocalID == "" || apple.LocalID == mystery.LocalID {
		t.Error("fetched records must get distinct local ids")
	}
}

func TestFetchTimestampDateWestOfUTC(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	orig := time.Local
	time.Local = ny
	t.Cleanup(func() { time.Local = orig })

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "ok",
			"data": []map[string]any{{
				"id": 1, "food_id": 2, "name": "Apple", "calories": 52,
				"unit": "g", "meal_type": "breakfast", "record_date": "2024-01-01T00:00:00.000Z",
			}},
		})
	})

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, ny)
	records, err := c.Fetch(context.Background(), 5, &day, nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 1 || !records[0].Date.Equal(day) {
		t.Fatalf("records = %+v, want one record on %v", records, day)
	}
}

func TestFetchRejectsInvalidUser(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, id := range []int64{0, -1} {
		if _, err := c.Fetch(context.Background(), id, nil, nil); !errors.Is(err, apperrors.ErrBadRequest) {
			t.Errorf("Fetch(%d) error = %v, want ErrBadRequest", id, err)
		}
	}
	if called {
		t.Error("server contacted for an invalid user id")
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, strings.Repeat("x", 2048), http.StatusInternalServerError)
			},
			want: apperrors.ErrBadResponse,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: apperrors.ErrBadResponse,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "{not json")
			},
			want: apperrors.ErrBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			_, err := c.Fetch(context.Background(), 1, nil, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	srv.Close()

	_, err = c.Fetch(context.Background(), 1, nil, nil)
	if !errors.Is(err, apperrors.ErrNetworkUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrNetworkUnavailable", err)
	}
	if err := c.Delete(context.Background(), 3); !errors.Is(err, apperrors.ErrNetworkUnavailable) {
		t.Errorf("Delete() error = %v, want ErrNetworkUnavailable", err)
	}
}

func TestCreate(t *testing.T) {
	var got map[string]any
	var method, path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"message": "created",
			"data":    map[string]any{"food_id": 42, "id": "420"},
		})
	})

	r := models.NewRecord("  Apple ", 52, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC))
	r.Unit = " piece "
	result, err := c.Create(context.Background(), 9, r)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if method != http.MethodPost || path != "/api/foods" {
		t.Errorf("request = %s %s, want POST /api/foods", method, path)
	}
	if result.FoodID != 42 || result.EntryID == nil || *result.EntryID != 420 {
		t.Errorf("Create() = %+v, want food 42 entry 420", result)
	}

	want := map[string]any{
		"name":      "Apple",
		"calories":  float64(52),
		"unit":      "piece",
		"date":      "2024-01-01T09:30:00Z",
		"user_id":   float64(9),
		"meal_type": "breakfast",
		"amount":    float64(1),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("body[%s] = %v, want %v", k, got[k], v)
		}
	}
	if _, ok := got["image_url"]; ok {
		t.Error("image_url should be omitted when empty")
	}
}

func TestCreateResponses(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		wantErr  error
		wantFood int64
	}{
		{name: "zero food id is accepted", data: map[string]any{"food_id": 0}, wantFood: 0},
		{name: "missing food id", data: map[string]any{"id": 5}, wantErr: apperrors.ErrBadResponse},
		{name: "null food id", data: map[string]any{"food_id": nil}, wantErr: apperrors.ErrBadResponse},
		{name: "missing data", data: nil, wantErr: apperrors.ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"message": "ok", "data": tt.data})
			})
			r := models.NewRecord("Apple", 52, time.Now())
			r.ImageURL = "http://cdn/x.jpg"
			result, err := c.Create(context.Background(), 1, r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if result.FoodID != tt.wantFood || result.EntryID != nil {
				t.Errorf("Create() = %+v", result)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	var method, path string
	var body map[string]any
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "updated"})
	})

	r := models.NewRecord("Apple", 52, time.Now())
	if err := c.Update(context.Background(), r); !errors.Is(err, apperrors.ErrMissingIdentifier) {
		t.Fatalf("Update() error = %v, want ErrMissingIdentifier", err)
	}
	if calls != 0 {
		t.Fatalf("server called %d times for a record without server id", calls)
	}

	r.ServerID = models.Int64(7)
	r.Amount = models.Float64(2)
	if err := c.Update(context.Background(), r); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if method != http.MethodPut || path != "/api/foods/7" {
		t.Errorf("request = %s %s, want PUT /api/foods/7", method, path)
	}
	if body["amount"] != float64(2) || body["name"] != "Apple" {
		t.Errorf("body = %v", body)
	}
}

func TestDelete(t *testing.T) {
	var method, path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Delete(context.Background(), 31); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if method != http.MethodDelete || path != "/api/meal-records/31" {
		t.Errorf("request = %s %s, want DELETE /api/meal-records/31", method, path)
	}
}

func TestProgressEndpoints(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "3" {
			t.Errorf("userId = %q, want 3", r.URL.Query().Get("userId"))
		}
		switch r.URL.Path {
		case "/api/daily_intake":
			if r.URL.Query().Get("date") != "2024-02-03" {
				t.Errorf("date = %q", r.URL.Query().Get("date"))
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"vegetables": 2, "fruits": "1.5", "grains": nil, "meat": "n/a", "dairy": 1,
			})
		case "/api/goal_settings":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"vegetables": 5, "fruits": 2, "grains": 6, "meat": 3, "dairy": 2.5, "extras": 0,
			})
		default:
			http.NotFound(w, r)
		}
	})

	intake, err := c.DailyIntake(context.Background(), 3, time.Date(2024, 2, 3, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("DailyIntake() error = %v", err)
	}
	want := models.NutrientTotals{Vegetables: 2, Fruits: 1.5, Dairy: 1}
	if intake != want {
		t.Errorf("DailyIntake() = %+v, want %+v", intake, want)
	}

	goals, err := c.GoalSettings(context.Background(), 3)
	if err != nil {
		t.Fatalf("GoalSettings() error = %v", err)
	}
	if goals.Grains != 6 || goals.Dairy != 2.5 || goals.Extras != 0 {
		t.Errorf("GoalSettings() = %+v", goals)
	}

	if _, err := c.DailyIntake(context.Background(), 0, time.Now()); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("DailyIntake(0) error = %v, want ErrBadRequest", err)
	}
	if _, err := c.GoalSettings(context.Background(), -2); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("GoalSettings(-2) error = %v, want ErrBadRequest", err)
	}
}

func TestUploadImage(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/uploadFoodImage" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		if r.FormValue("user_id") != "4" {
			t.Errorf("user_id = %q, want 4", r.FormValue("user_id"))
		}
		file, header, err := r.FormFile("foodImage")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "jpegbytes" || header.Filename != "apple.jpg" {
			t.Errorf("uploaded %q as %q", data, header.Filename)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"imageUrl": "/uploads/abc.jpg"})
	})

	got, err := c.UploadImage(context.Background(), 4, "/tmp/photos/apple.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if want := srv.URL + "/uploads/abc.jpg"; got != want {
		t.Errorf("UploadImage() = %q, want %q", got, want)
	}

	if _, err := c.UploadImage(context.Background(), 0, "x.jpg", strings.NewReader("")); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("UploadImage(0) error = %v, want ErrBadRequest", err)
	}
}

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		set     bool
		wantErr bool
	}{
		{in: `12`, want: 12, set: true},
		{in: `"12"`, want: 12, set: true},
		{in: `12.0`, want: 12, set: true},
		{in: `null`},
		{in: `""`},
		{in: `"abc"`, wantErr: true},
		{in: `1.5`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f flexInt
			err := json.Unmarshal([]byte(tt.in), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && (f.Value != tt.want || f.Set != tt.set) {
				t.Errorf("Unmarshal(%s) = %+v", tt.in, f)
			}
		})
	}
}
