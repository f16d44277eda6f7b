package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mmynk/jobbook/internal/auth"
	"github.com/mmynk/jobbook/internal/metrics"
	"github.com/mmynk/jobbook/internal/models"
	"github.com/mmynk/jobbook/internal/storage/jsonfile"
	"github.com/mmynk/jobbook/internal/storage/sqlite"
)

func newFileStore(t *testing.T) *jsonfile.FileStore {
	t.Helper()
	store, err := jsonfile.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	return store
}

func newClientStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "clients.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	svc := NewJobService(store, metrics.New())

	job, created, err := svc.Create(ctx, JobInput{Customer: "Alice", Description: "Windows", Date: "2024-05-01", Time: "10:00"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Fatal("expected job to be created")
	}
	if job.ID != 1 {
		t.Errorf("first job id = %d, want 1", job.ID)
	}

	second, _, err := svc.Create(ctx, JobInput{Customer: "Bob", Date: "2024-05-02"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("second job id = %d, want 2", second.ID)
	}

	jobs, err := store.LoadJobs(ctx)
	if err != nil {
		t.Fatalf("LoadJobs failed: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Customer != "Alice" || jobs[1].Customer != "Bob" {
		t.Errorf("stored jobs = %#v", jobs)
	}
}

func TestJobServiceCreateRequiresCustomerAndDate(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	svc := NewJobService(store, nil)

	if _, _, err := svc.Create(ctx, JobInput{Customer: "Alice", Date: "2024-05-01"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before, _ := store.LoadJobs(ctx)

	tests := []struct {
		name  string
		input JobInput
	}{
		{"missing customer", JobInput{Date: "2024-05-01", Description: "x"}},
		{"missing date", JobInput{Customer: "Bob", Time: "noon"}},
		{"both missing", JobInput{Description: "only a description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, created, err := svc.Create(ctx, tt.input)
			if err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			if created {
				t.Error("expected no job to be created")
			}
			after, _ := store.LoadJobs(ctx)
			if !reflect.DeepEqual(before, after) {
				t.Errorf("stored list changed: %v -> %v", before, after)
			}
		})
	}
}

func TestJobServiceCreateAcceptsWhitespaceValues(t *testing.T) {
	svc := NewJobService(newFileStore(t), nil)

	job, created, err := svc.Create(context.Background(), JobInput{Customer: " ", Date: " "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created || job.Customer != " " || job.Date != " " {
		t.Errorf("Create = %#v, created %v; want stored as submitted", job, created)
	}
}

func TestJobServiceKeepsJobsWithLooseFieldTypes(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	if err := os.WriteFile(store.JobsPath(), []byte(`[
    {"id": 1, "customer": "Alice", "date": "2024-05-01", "time": "09:00"},
    {"id": 2, "customer": "Bob", "date": "2024-05-02", "time": 930}
]`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	svc := NewJobService(store, nil)

	job, _, err := svc.Create(ctx, JobInput{Customer: "Carol", Date: "2024-05-03"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if job.ID != 3 {
		t.Errorf("new id = %d, want 3", job.ID)
	}

	jobs, err := store.LoadJobs(ctx)
	if err != nil {
		t.Fatalf("LoadJobs failed: %v", err)
	}
	var names []string
	for _, j := range jobs {
		names = append(names, j.Customer)
	}
	if strings.Join(names, ",") != "Alice,Bob,Carol" {
		t.Errorf("stored customers = %v, want Alice,Bob,Carol", names)
	}
	if jobs[1].Time != "930" {
		t.Errorf("Bob's time = %q, want 930", jobs[1].Time)
	}
}

func TestJobServiceIDsAfterDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newFileStore(t), nil)

	for _, name := range []string{"A", "B", "C"} {
		if _, _, err := svc.Create(ctx, JobInput{Customer: name, Date: "2024-05-01"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	job, _, err := svc.Create(ctx, JobInput{Customer: "D", Date: "2024-05-03"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if job.ID != 4 {
		t.Errorf("new id = %d, want 4 (no reuse of existing ids)", job.ID)
	}

	jobs, _ := svc.List(ctx)
	seen := map[int]bool{}
	for _, j := range jobs {
		if seen[j.ID] {
			t.Fatalf("duplicate id %d in %v", j.ID, jobs)
		}
		seen[j.ID] = true
	}
}

func TestJobServiceUpdate(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	svc := NewJobService(store, nil)

	job, _, err := svc.Create(ctx, JobInput{Customer: "Alice", Date: "2024-05-01"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("applies all fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, job.ID, JobInput{Customer: "Alice B", Description: "Roof", Date: "2024-05-09", Time: "08:00"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		want := models.Job{ID: job.ID, Customer: "Alice B", Description: "Roof", Date: "2024-05-09", Time: "08:00"}
		if updated != want {
			t.Errorf("Update = %#v, want %#v", updated, want)
		}
		got, err := svc.Get(ctx, job.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != want {
			t.Errorf("Get = %#v, want %#v", got, want)
		}
	})

	t.Run("missing id leaves list unchanged", func(t *testing.T) {
		before, err := os.ReadFile(store.JobsPath())
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}

		_, err = svc.Update(ctx, 999, JobInput{Customer: "Ghost", Date: "2024-01-01"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update error = %v, want ErrNotFound", err)
		}

		after, err := os.ReadFile(store.JobsPath())
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(before) != string(after) {
			t.Error("jobs file changed on update of missing id")
		}
	})

	t.Run("Get missing id", func(t *testing.T) {
		if _, err := svc.Get(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get error = %v, want ErrNotFound", err)
		}
	})
}

func TestJobServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newFileStore(t), nil)

	for _, name := range []string{"A", "B"} {
		if _, _, err := svc.Create(ctx, JobInput{Customer: name, Date: "2024-05-01"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, 42); err != nil {
		t.Fatalf("Delete of missing id failed: %v", err)
	}

	jobs, _ := svc.List(ctx)
	if len(jobs) != 1 || jobs[0].Customer != "B" {
		t.Errorf("remaining jobs = %#v", jobs)
	}
}

func TestClientService(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newClientStore(t), metrics.New())

	t.Run("Create rejects blank name", func(t *testing.T) {
		_, err := svc.Create(ctx, ClientInput{Phone: "555"})
		if !errors.Is(err, ErrInvalidClient) {
			t.Errorf("Create error = %v, want ErrInvalidClient", err)
		}
		clients, _ := svc.List(ctx)
		if len(clients) != 0 {
			t.Errorf("expected no clients, got %d", len(clients))
		}
	})

	var id int64
	t.Run("Create stores client", func(t *testing.T) {
		client, err := svc.Create(ctx, ClientInput{Name: " Acme Corp ", Phone: "555-0199", Notes: "Back door"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if client.Name != "Acme Corp" {
			t.Errorf("name = %q, want trimmed", client.Name)
		}
		id = client.ID
	})

	t.Run("Update applies fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, id, ClientInput{Name: "Acme Inc", Email: "ops@acme.test"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "Acme Inc" || updated.Phone != "" || updated.Email != "ops@acme.test" {
			t.Errorf("unexpected client %#v", updated)
		}
	})

	t.Run("Update rejects invalid input without changes", func(t *testing.T) {
		_, err := svc.Update(ctx, id, ClientInput{Name: ""})
		if !errors.Is(err, ErrInvalidClient) {
			t.Errorf("Update error = %v, want ErrInvalidClient", err)
		}
		client, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if client.Name != "Acme Inc" {
			t.Errorf("name changed to %q", client.Name)
		}
	})

	t.Run("Update missing id", func(t *testing.T) {
		_, err := svc.Update(ctx, 9999, ClientInput{Name: "Ghost"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Delete missing id is a no-op", func(t *testing.T) {
		if err := svc.Delete(ctx, 9999); err != nil {
			t.Errorf("Delete error = %v", err)
		}
		clients, _ := svc.List(ctx)
		if len(clients) != 1 {
			t.Errorf("expected 1 client, got %d", len(clients))
		}
	})

	t.Run("Delete removes client", func(t *testing.T) {
		if err := svc.Delete(ctx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestSettingsServiceDefaults(t *testing.T) {
	svc, err := NewSettingsService(context.Background(), newFileStore(t))
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}
	if got := svc.Current(); got != models.DefaultSettings() {
		t.Errorf("Current = %#v, want defaults", got)
	}
}

func TestSettingsServiceUpdate(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	svc, err := NewSettingsService(ctx, store)
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}

	updated, err := svc.Update(ctx, SettingsInput{
		BusinessName:  "Sparkle Cleaning",
		ContactEmail:  "hi@sparkle.test",
		LoginUsername: "owner",
		LoginPassword: "pa55word",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !auth.IsHashed(updated.LoginPassword) {
		t.Errorf("password should be stored hashed, got %q", updated.LoginPassword)
	}
	if svc.Current() != updated {
		t.Error("cache not refreshed after update")
	}

	persisted, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if persisted != updated {
		t.Errorf("persisted = %#v, want %#v", persisted, updated)
	}

	t.Run("empty password keeps existing hash", func(t *testing.T) {
		again, err := svc.Update(ctx, SettingsInput{BusinessName: "Sparkle Ltd", LoginUsername: "owner"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if again.LoginPassword != updated.LoginPassword {
			t.Error("password hash changed on empty submission")
		}
		if again.ContactEmail != "" {
			t.Errorf("contact email = %q, want replaced with empty", again.ContactEmail)
		}
	})

	t.Run("authenticator uses new credentials", func(t *testing.T) {
		if err := svc.Authenticator().Authenticate("owner", "pa55word"); err != nil {
			t.Errorf("Authenticate failed: %v", err)
		}
	})
}

func TestSettingsServiceSetCredentials(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSettingsService(ctx, newFileStore(t))
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}

	if err := svc.SetCredentials(ctx, "", "x"); err == nil {
		t.Error("expected error for empty username")
	}
	if err := svc.SetCredentials(ctx, "admin", ""); !errors.Is(err, auth.ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if err := svc.SetCredentials(ctx, "admin", "letmein"); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}

	current := svc.Current()
	if current.BusinessName != models.DefaultBusinessName {
		t.Errorf("business name = %q, want kept", current.BusinessName)
	}
	if err := svc.Authenticator().Authenticate("admin", "letmein"); err != nil {
		t.Errorf("Authenticate failed: %v", err)
	}
}

func TestSettingsSavedByAnotherProcess(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	running, err := NewSettingsService(ctx, store)
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}
	sessions := auth.NewSessionManager([]byte("0123456789abcdef0123456789abcdef"), 0, false)
	authSvc := NewAuthService(running, sessions, nil, discardLogger())

	// A second service on the same files stands in for the set-credentials command.
	cli, err := NewSettingsService(ctx, store)
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}
	if err := cli.SetCredentials(ctx, "owner", "fresh-pass"); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}

	t.Run("login sees new credentials without restart", func(t *testing.T) {
		if _, err := authSvc.Login(ctx, "owner", "fresh-pass"); err != nil {
			t.Errorf("Login failed: %v", err)
		}
	})

	t.Run("settings page save keeps new password", func(t *testing.T) {
		if err := cli.SetCredentials(ctx, "owner", "newer-pass"); err != nil {
			t.Fatalf("SetCredentials failed: %v", err)
		}
		if _, err := running.Update(ctx, SettingsInput{BusinessName: "Renamed", LoginUsername: "owner"}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		persisted, err := store.LoadSettings(ctx)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if !auth.VerifyPassword("newer-pass", persisted.LoginPassword) {
			t.Error("settings save overwrote the password set by another process")
		}
		if persisted.BusinessName != "Renamed" {
			t.Errorf("business name = %q", persisted.BusinessName)
		}
	})
}

type failingSettingsStore struct{}

func (failingSettingsStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	return models.DefaultSettings(), nil
}

func (failingSettingsStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	return errors.New("disk full")
}

func TestSettingsServiceSaveFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSettingsService(ctx, failingSettingsStore{})
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}

	if _, err := svc.Update(ctx, SettingsInput{BusinessName: "New Name"}); err == nil {
		t.Fatal("expected save error")
	}
	if svc.Current().BusinessName != models.DefaultBusinessName {
		t.Error("cache changed although save failed")
	}
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	settings, err := NewSettingsService(ctx, newFileStore(t))
	if err != nil {
		t.Fatalf("NewSettingsService failed: %v", err)
	}
	sessions := auth.NewSessionManager([]byte("0123456789abcdef0123456789abcdef"), 0, false)
	svc := NewAuthService(settings, sessions, metrics.New(), discardLogger())

	t.Run("no credentials configured", func(t *testing.T) {
		if _, err := svc.Login(ctx, "", ""); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})

	if err := settings.SetCredentials(ctx, "admin", "secret"); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(ctx, "admin", "nope"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("failed login does not log the submitted username", func(t *testing.T) {
		var buf bytes.Buffer
		logged := NewAuthService(settings, sessions, nil, slog.New(slog.NewTextHandler(&buf, nil)))
		if _, err := logged.Login(ctx, "my-secret-password", "x"); err == nil {
			t.Fatal("expected login to fail")
		}
		if !strings.Contains(buf.String(), "Login failed") {
			t.Errorf("expected a failure log line, got %q", buf.String())
		}
		if strings.Contains(buf.String(), "my-secret-password") {
			t.Errorf("submitted username leaked into log: %q", buf.String())
		}
	})

	t.Run("valid credentials return a session token", func(t *testing.T) {
		token, err := svc.Login(ctx, "admin", "secret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if _, err := svc.Sessions().Validate(token); err != nil {
			t.Errorf("token did not validate: %v", err)
		}
	})
}
