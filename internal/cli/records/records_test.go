package records

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/config"
	"github.com/vitatrack/vitatrack/internal/devserver"
	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/keyring"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/remote"
	"github.com/vitatrack/vitatrack/internal/storage/sqlite"
)

const testDate = "2024-03-10"

// setupBackend starts a development server over a temporary database and
// returns a factory for per-invocation command contexts.
func setupBackend(t *testing.T) func() (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()
	dir := t.TempDir()

	store := sqlite.NewStore(filepath.Join(dir, "devserver.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv, err := devserver.New(devserver.Config{Store: store, UploadDir: filepath.Join(dir, "uploads")})
	if err != nil {
		t.Fatalf("devserver.New() failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg, err := config.New(ts.URL, dir, 0, false)
	if err != nil {
		t.Fatalf("config.New() failed: %v", err)
	}

	return func() (*cli.Context, *bytes.Buffer) {
		client, err := remote.NewClient(remote.Config{BaseURL: cfg.ServerURL})
		if err != nil {
			t.Fatalf("NewClient() failed: %v", err)
		}
		var buf bytes.Buffer
		ctx := cli.NewContext(cfg, client)
		ctx.Out = &buf
		return ctx, &buf
	}
}

func login(t *testing.T, id int64) {
	t.Helper()
	if err := keyring.SetUser(models.User{ID: id, Username: "tester"}); err != nil {
		t.Fatalf("SetUser() failed: %v", err)
	}
}

func TestRecordCommands(t *testing.T) {
	newCtx := setupBackend(t)
	login(t, 7)

	ctx, out := newCtx()
	add := &RecordAddCmd{Name: "Oatmeal", Calories: 150, Meal: "breakfast", Unit: "g", Amount: 2, Date: testDate}
	if err := add.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added food: #") || !strings.Contains(out.String(), "Oatmeal - 150 kcal (2 g)") {
		t.Errorf("add output = %q", out.String())
	}
	added := ctx.Store.Records()
	if len(added) != 1 || added[0].ServerID == nil {
		t.Fatalf("store after add = %+v", added)
	}
	foodID := *added[0].ServerID

	ctx, out = newCtx()
	if err := (&RecordListCmd{Date: testDate}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 record(s), 150 kcal") || !strings.Contains(out.String(), "breakfast 1") {
		t.Errorf("list output = %q", out.String())
	}

	ctx, out = newCtx()
	if err := (&RecordListCmd{Date: testDate, Meal: "lunch"}).Run(ctx); err != nil {
		t.Fatalf("list --meal failed: %v", err)
	}
	if !strings.Contains(out.String(), "0 record(s)") {
		t.Errorf("list --meal lunch output = %q", out.String())
	}

	ctx, out = newCtx()
	calories := 170
	name := "Steel-cut oats"
	edit := &RecordEditCmd{ID: foodID, Date: testDate, Name: &name, Calories: &calories}
	if err := edit.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !strings.Contains(out.String(), "Steel-cut oats - 170 kcal") {
		t.Errorf("edit output = %q", out.String())
	}

	ctx, out = newCtx()
	if err := (&RecordDeleteCmd{ID: foodID, Date: testDate}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted food: Steel-cut oats") {
		t.Errorf("delete output = %q", out.String())
	}

	ctx, _ = newCtx()
	if err := (&RecordDeleteCmd{ID: foodID, Date: testDate}).Run(ctx); err == nil {
		t.Error("deleting a missing record should fail")
	}
}

func TestRecordAddWithImage(t *testing.T) {
	newCtx := setupBackend(t)
	login(t, 3)

	img := filepath.Join(t.TempDir(), "lunch.png")
	if err := os.WriteFile(img, []byte("png-bytes"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, out := newCtx()
	add := &RecordAddCmd{Name: "Salad", Calories: 120, Meal: "lunch", Unit: "g", Amount: 1, Date: testDate, Image: img}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "[photo]") {
		t.Errorf("add output = %q, want photo marker", out.String())
	}
	recs := ctx.Store.Records()
	if len(recs) != 1 || !strings.Contains(recs[0].ImageURL, "/uploads/") {
		t.Errorf("records = %+v", recs)
	}
}

func TestRecordCommandsRequireLogin(t *testing.T) {
	newCtx := setupBackend(t)
	_ = keyring.DeleteUser()

	ctx, _ := newCtx()
	if err := (&RecordListCmd{Date: testDate}).Run(ctx); !errors.Is(err, apperrors.ErrNoUser) {
		t.Errorf("list error = %v, want ErrNoUser", err)
	}

	ctx, _ = newCtx()
	add := &RecordAddCmd{Name: "Tea", Calories: 2, Meal: "snack", Unit: "ml", Amount: 250, Date: testDate}
	if err := add.Run(ctx); !errors.Is(err, apperrors.ErrNoUser) {
		t.Errorf("add error = %v, want ErrNoUser", err)
	}
}

func TestRecordAddValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     RecordAddCmd
		wantErr bool
	}{
		{"valid", RecordAddCmd{Name: "Apple", Calories: 52, Meal: "snack", Amount: 1}, false},
		{"blank name", RecordAddCmd{Name: "  ", Calories: 52, Meal: "snack", Amount: 1}, true},
		{"negative calories", RecordAddCmd{Name: "Apple", Calories: -1, Meal: "snack", Amount: 1}, true},
		{"zero amount", RecordAddCmd{Name: "Apple", Calories: 52, Meal: "snack", Amount: 0}, true},
		{"unknown meal", RecordAddCmd{Name: "Apple", Calories: 52, Meal: "brunch", Amount: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordEditValidate(t *testing.T) {
	if err := (&RecordEditCmd{ID: 1}).Validate(); err == nil {
		t.Error("Validate() with no changes should fail")
	}
	unit := "ml"
	if err := (&RecordEditCmd{ID: 1, Unit: &unit}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
