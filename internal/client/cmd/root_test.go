package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biokeeper/internal/client/app"
	"biokeeper/internal/client/config"
	"biokeeper/internal/client/session"
	"biokeeper/internal/client/validate"
	"biokeeper/internal/shared/models"
	"biokeeper/internal/testserver"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	if runtime.GOOS == "windows" {
		t.Setenv("HOMEDRIVE", "")
		t.Setenv("HOMEPATH", "")
	}
	return dir
}

type harness struct {
	t    *testing.T
	srv  *testserver.Server
	home string
	// stderr holds what the last run wrote to the error stream.
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, srv: testserver.Start(t), home: withTempHome(t), stderr: new(bytes.Buffer)}
}

// run executes one CLI invocation against the test server with a fresh
// command tree, as a separate process would.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	root, e := newRootCmd("1.0.0", "2026-01-02", func(cfg config.Config) (*app.App, error) {
		a, err := app.New(cfg)
		if err != nil {
			return nil, err
		}
		a.Location = time.UTC
		return a, nil
	})
	defer e.close()

	out := new(bytes.Buffer)
	root.SetOut(out)
	h.stderr.Reset()
	root.SetErr(h.stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{
		"--server=" + h.srv.URL,
		"--session-db=" + filepath.Join(h.home, "state", "session.db"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) loginAs(access models.AccessRights) models.User {
	h.t.Helper()
	u := h.srv.SeedUser(models.User{
		FirstName: "Ann", LastName: "Lee", Role: "Technician",
		AccessRights: access, Login: strings.ToLower(string(access)) + "@lab.org", Password: "secret1",
	})
	h.mustRun("secret1\n", "auth", "login", "--login", u.Login)
	return u
}

func TestRoot_Version(t *testing.T) {
	home := withTempHome(t)
	root, cleanup := NewRootCmd("1.0.0", "2026-01-02")
	defer cleanup()
	out := new(bytes.Buffer)
	root.SetOut(out)
	db := filepath.Join(home, "state", "session.db")
	root.SetArgs([]string{"version", "--profile", "mobile", "--session-db", db})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "biokeeper 1.0.0 (2026-01-02)") {
		t.Fatalf("unexpected version output %q", got)
	}
	if !strings.Contains(got, "(mobile profile)") || !strings.Contains(got, "dates:   mobile") {
		t.Fatalf("version should describe the resolved settings: %q", got)
	}
	if _, err := os.Stat(db); !os.IsNotExist(err) {
		t.Fatalf("version must not open the session store: %v", err)
	}
}

func TestRoot_CleanupAfterFailedCommand(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)

	root, e := newRootCmd("1.0.0", "2026-01-02", app.New)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"--server=" + h.srv.URL,
		"--session-db=" + filepath.Join(h.home, "state", "session.db"),
		"users", "get", "42",
	})
	require.Error(t, root.Execute())
	require.NotNil(t, e.app, "a failed command skips PersistentPostRunE")

	require.NoError(t, e.close())
	assert.Nil(t, e.app)
	require.NoError(t, e.close())
}

func TestAuth_LoginStatusLogout(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "auth", "status")
	assert.Contains(t, out, "Not logged in")

	u := h.loginAs(models.AccessFull)

	out = h.mustRun("", "auth", "status")
	assert.Contains(t, out, u.Login)
	assert.Contains(t, out, "Full")
	assert.Contains(t, out, "Writes: allowed")
	assert.Contains(t, out, h.srv.URL)

	h.mustRun("", "auth", "logout")
	out = h.mustRun("", "auth", "status")
	assert.Contains(t, out, "Not logged in")
}

func TestAuth_LoginPromptsForLogin(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser(models.User{Login: "bo@lab.org", Password: "secret1", AccessRights: models.AccessReadAll})

	out := h.mustRun("bo@lab.org\nsecret1\n", "auth", "login")
	assert.Contains(t, out, "Logged in as bo@lab.org")
}

func TestAuth_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser(models.User{Login: "bo@lab.org", Password: "secret1", AccessRights: models.AccessFull})

	_, err := h.run("nope\n", "auth", "login", "--login", "bo@lab.org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid login or password")
}

func TestAuth_ReadOnlyIsTurnedAway(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser(models.User{Login: "ro@lab.org", Password: "secret1", AccessRights: models.AccessReadOnly})

	_, err := h.run("secret1\n", "auth", "login", "--login", "ro@lab.org")
	require.ErrorIs(t, err, session.ErrAccessDenied)

	out := h.mustRun("", "auth", "status")
	assert.Contains(t, out, "Not logged in")
}

func TestAuth_Register(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("secret1\n", "auth", "register",
		"--first-name", "Iryna", "--last-name", "Shevchenko", "--role", "Surgeon", "--login", "iryna@lab.org")
	assert.Contains(t, out, "Registered and logged in as iryna@lab.org")
	require.Len(t, h.srv.Users(), 1)

	_, err := h.run("secret1\n", "auth", "register",
		"--first-name", "Iryna", "--last-name", "Shevchenko", "--role", "Surgeon", "--login", "iryna@lab.org")
	require.Error(t, err)
	assert.Equal(t, "Email is already registered", err.Error())
}

func TestAuth_RegisterValidates(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("123\n", "auth", "register",
		"--first-name", "I", "--last-name", "Shevchenko", "--role", "Surgeon", "--login", "not-an-email")
	require.Error(t, err)
	var fields []string
	for _, fe := range validate.Fields(err) {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"first_name", "login", "password"}, fields)
	assert.Empty(t, h.srv.Users())
}

func TestCommands_RequireSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "donors", "list")
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestDonors_Lifecycle(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)

	out := h.mustRun("", "donors", "list")
	assert.Contains(t, out, "No records found")

	out = h.mustRun("", "donors", "add",
		"--first-name", "Maria", "--last-name", "Ivanova", "--birth-date", "1990-04-12",
		"--gender", "female", "--id-number", "AB12345678", "--blood-type", "a_pos")
	assert.Contains(t, out, "Created donor")

	donors := h.srv.Donors()
	require.Len(t, donors, 1)
	d := donors[0]
	assert.Equal(t, models.BloodAPos, d.BloodType)
	assert.Equal(t, models.GenderFemale, d.Gender)

	out = h.mustRun("", "donors", "list")
	assert.Contains(t, out, "Maria Ivanova")
	assert.Contains(t, out, "12-04-1990")
	assert.Contains(t, out, "A+")

	out = h.mustRun("", "donors", "list", "--date-format", "us")
	assert.Contains(t, out, "04-12-1990")

	h.mustRun("", "donors", "update", "1", "--restrictions", "No cardiac tissue")
	assert.Equal(t, "No cardiac tissue", h.srv.Donors()[0].TransplantRestrictions)
	assert.Equal(t, "Maria", h.srv.Donors()[0].FirstName)

	out = h.mustRun("n\n", "donors", "delete", "1")
	assert.Contains(t, out, "Cancelled")
	require.Len(t, h.srv.Donors(), 1)

	out = h.mustRun("", "donors", "delete", "1", "--yes")
	assert.Contains(t, out, "Deleted donor 1")
	assert.Empty(t, h.srv.Donors())
}

func TestDonors_AddRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)

	_, err := h.run("", "donors", "add",
		"--first-name", "Maria", "--last-name", "Ivanova", "--birth-date", time.Now().UTC().Format("2006-01-02"),
		"--gender", "other", "--id-number", "short", "--blood-type", "A_POS")
	require.Error(t, err)
	var fields []string
	for _, fe := range validate.Fields(err) {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"birthDate", "gender", "idNumber"}, fields)
	assert.Empty(t, h.srv.Donors())
}

func TestDonors_FilterSortAndJSON(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	h.srv.SeedDonor(models.Donor{FirstName: "Oleh", LastName: "Bondar", BirthDate: "1980-01-01", BloodType: models.BloodONeg})
	h.srv.SeedDonor(models.Donor{FirstName: "Anna", LastName: "Tkach", BirthDate: "1975-06-30", BloodType: models.BloodAPos})
	h.srv.SeedDonor(models.Donor{FirstName: "Borys", LastName: "Tkachenko", BirthDate: "1999-03-03", BloodType: models.BloodAPos})

	out := h.mustRun("", "donors", "list", "--name", "TKACH", "--sort", "birthDate", "--desc", "-o", "json")
	var got []models.Donor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Borys", got[0].FirstName)
	assert.Equal(t, "Anna", got[1].FirstName)

	out = h.mustRun("", "donors", "list", "--blood-type", "o_neg", "-o", "json")
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Oleh", got[0].FirstName)

	out = h.mustRun("", "donors", "list", "--name", "nobody", "-o", "json")
	assert.Equal(t, "[]", strings.TrimSpace(out))

	_, err := h.run("", "donors", "list", "--sort", "shoeSize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort key")
}

func TestDonors_ExportXLSX(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	h.srv.SeedDonor(models.Donor{FirstName: "Anna", LastName: "Tkach", BloodType: models.BloodAPos})

	_, err := h.run("", "donors", "list", "-o", "xlsx")
	require.Error(t, err)

	file := filepath.Join(h.home, "donors.xlsx")
	out := h.mustRun("", "donors", "list", "-o", "xlsx", "--file", file)
	assert.Contains(t, out, "Exported 1 records")
	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMaterials_AddAndResolveDonor(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	d := h.srv.SeedDonor(models.Donor{FirstName: "Anna", LastName: "Tkach", BloodType: models.BloodBNeg})

	out := h.mustRun("", "materials", "add",
		"--name", "Cornea", "--expiration-date", "2099-01-01",
		"--ideal-temperature", "4", "--ideal-oxygen", "20", "--ideal-humidity", "60",
		"--donor", "1")
	assert.Contains(t, out, "Created biological material")

	mats := h.srv.Materials()
	require.Len(t, mats, 1)
	assert.Equal(t, models.StatusAvailable, mats[0].Status)
	assert.Equal(t, d.DonorID, mats[0].DonorRef())
	assert.NotEmpty(t, mats[0].TransferDate)

	out = h.mustRun("", "materials", "list")
	assert.Contains(t, out, "Anna Tkach")
	assert.Contains(t, out, "Available")

	out = h.mustRun("", "materials", "list", "--blood-type", "B_NEG", "-o", "json")
	var got []models.BiologicalMaterial
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 1)

	out = h.mustRun("", "materials", "get", "1")
	assert.Contains(t, out, "Cornea")
	assert.Contains(t, out, "Anna Tkach")
}

func TestMaterials_UpdateStatus(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	d := h.srv.SeedDonor(models.Donor{FirstName: "Anna", LastName: "Tkach"})
	h.srv.SeedMaterial(models.BiologicalMaterial{
		MaterialName: "Plasma", ExpirationDate: "2099-01-01", Status: models.StatusAvailable,
		TransferDate: "2024-01-01", Donor: &models.Donor{DonorID: d.DonorID},
	})

	h.mustRun("", "materials", "update", "1", "--status", "donated")
	m := h.srv.Materials()[0]
	assert.Equal(t, models.StatusDonated, m.Status)
	assert.Equal(t, "Plasma", m.MaterialName)
	assert.Equal(t, d.DonorID, m.DonorRef())
}

func TestConditions_ListAndPreview(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	m := h.srv.SeedMaterial(models.BiologicalMaterial{
		MaterialName: "Plasma", IdealTemperature: 4, IdealHumidity: 50, IdealOxygenLevel: 20,
	})
	ref := &models.BiologicalMaterial{MaterialID: m.MaterialID}
	h.srv.SeedCondition(models.StorageCondition{Temperature: 4, Humidity: 50, OxygenLevel: 20, MeasurementTime: "2025-01-01T10:00:00", Material: ref})
	h.srv.SeedCondition(models.StorageCondition{Temperature: 30, Humidity: 0, OxygenLevel: 90, MeasurementTime: "2025-01-02T10:00:00", Material: ref})

	out := h.mustRun("", "conditions", "list")
	assert.Contains(t, out, "Plasma")
	assert.Contains(t, out, "Green")
	assert.Contains(t, out, "Red")

	out = h.mustRun("", "conditions", "list", "--zone", "red", "-o", "json")
	var got []models.StorageCondition
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 30.0, got[0].Temperature)

	out = h.mustRun("", "conditions", "preview", "--material", "1", "--temperature", "12", "--humidity", "50", "--oxygen", "20")
	assert.Contains(t, out, "Zone: Yellow")
	assert.Contains(t, out, "Score: 0.60")

	_, err := h.run("", "conditions", "preview")
	require.Error(t, err)
}

func TestConditions_AddDefaultsMeasurementTime(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	h.srv.SeedMaterial(models.BiologicalMaterial{MaterialName: "Plasma", IdealTemperature: 4})

	h.mustRun("", "conditions", "add", "--temperature", "4", "--humidity", "40", "--oxygen", "21", "--material", "1")
	conds := h.srv.Conditions()
	require.Len(t, conds, 1)
	assert.NotEmpty(t, conds[0].MeasurementTime)
	assert.NotEmpty(t, conds[0].Zone)
}

func TestNotifications_MaterialLabel(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	m := h.srv.SeedMaterial(models.BiologicalMaterial{MaterialName: "Plasma"})
	h.srv.SeedNotification(models.Notification{
		EventType: "Expiry", Details: "Expires tomorrow", NotificationTime: "2025-05-05T08:00:00",
		Material: &models.BiologicalMaterial{MaterialID: m.MaterialID},
	})
	h.srv.SeedNotification(models.Notification{EventType: "System", Details: "Nightly check"})

	out := h.mustRun("", "notifications", "list")
	assert.Contains(t, out, "Plasma (ID: 1)")
	assert.Contains(t, out, "N/A")

	out = h.mustRun("", "notifications", "list", "--material", "1", "-o", "json")
	var got []models.Notification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Expiry", got[0].EventType)
}

func TestEventLogs_CreatorDefaultsToActor(t *testing.T) {
	h := newHarness(t)
	u := h.loginAs(models.AccessFull)

	h.mustRun("", "eventlogs", "add", "--details", "Freezer 3 serviced")
	out := h.mustRun("", "eventlogs", "list")
	assert.Contains(t, out, "Freezer 3 serviced")
	assert.Contains(t, out, u.FullName())

	out = h.mustRun("", "eventlogs", "list", "--creator", "99", "-o", "json")
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestUsers_WriteDeniedForReadAll(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessReadAll)

	out := h.mustRun("", "users", "list", "--access", "read_all")
	assert.Contains(t, out, "Read all")
	assert.Empty(t, h.stderr.String())

	out = h.mustRun("", "auth", "status")
	assert.Contains(t, out, "Writes: read only")

	_, err := h.run("", "users", "delete", "1", "--yes")
	require.Error(t, err)
	assert.Contains(t, h.stderr.String(), "warning: Read all access cannot change data")
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to delete user"), err.Error())
	assert.Contains(t, err.Error(), "Access denied")
	assert.Len(t, h.srv.Users(), 1)
}

func TestUsers_UnknownID(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)

	_, err := h.run("", "users", "get", "abc")
	require.Error(t, err)

	_, err = h.run("", "users", "get", "42")
	require.Error(t, err)
	assert.False(t, errors.Is(err, session.ErrNoSession))
}

func TestUpdate_WithoutFlagsResendsRecord(t *testing.T) {
	h := newHarness(t)
	h.loginAs(models.AccessFull)
	seeded := h.srv.SeedDonor(models.Donor{
		FirstName: "Oleh", LastName: "Bondar", BirthDate: "1980-01-01", Gender: models.GenderMale,
		IDNumber: "XY98765432", BloodType: models.BloodONeg, TransplantRestrictions: "None",
	})

	h.mustRun("", "donors", "update", "1")
	req, ok := h.srv.LastRequest("PUT")
	require.True(t, ok)
	var sent models.Donor
	require.NoError(t, json.Unmarshal(req.Body, &sent))
	seeded.DonorID = 0
	assert.Equal(t, seeded, sent)
}
