// Package validate checks form input before it is sent to the service.
// Every checker collects all field problems and returns them joined.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"biokeeper/internal/client/datefmt"
	"biokeeper/internal/shared/models"
)

const adultAge = 18

var (
	idNumberRe = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldError describes one invalid field by its JSON name.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Msg }

// Fields extracts every FieldError wrapped in err.
func Fields(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Fields(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}

type checker struct {
	today time.Time
	loc   *time.Location
	errs  []error
}

func newChecker(today time.Time) *checker {
	return &checker{today: civil(today), loc: today.Location()}
}

func (c *checker) fail(field, format string, args ...any) {
	c.errs = append(c.errs, &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)})
}

func (c *checker) err() error { return errors.Join(c.errs...) }

func (c *checker) length(field, v string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	switch {
	case n == 0 && min > 0:
		c.fail(field, "is required")
	case n < min:
		c.fail(field, "must be at least %d characters", min)
	case max > 0 && n > max:
		c.fail(field, "must be at most %d characters", max)
	}
}

func (c *checker) between(field string, v, lo, hi float64) {
	if v < lo || v > hi {
		c.fail(field, "must be between %g and %g", lo, hi)
	}
}

func (c *checker) ref(field string, id int64) {
	if id <= 0 {
		c.fail(field, "is required")
	}
}

// day reads raw as a calendar day in today's location.
func (c *checker) day(field string, raw models.Timestamp) (time.Time, bool) {
	if strings.TrimSpace(string(raw)) == "" {
		c.fail(field, "is required")
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", string(raw)); err == nil {
		return t, true
	}
	t, ok := datefmt.Parse(string(raw), c.loc)
	if !ok {
		c.fail(field, "is not a valid date")
		return time.Time{}, false
	}
	return civil(t.In(c.loc)), true
}

func (c *checker) notAfterToday(field string, raw models.Timestamp) {
	if d, ok := c.day(field, raw); ok && d.After(c.today) {
		c.fail(field, "cannot be in the future")
	}
}

// civil truncates t to its calendar date, expressed as UTC midnight so that
// dates from different zones compare by day.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// yearsBefore steps n calendar years back from a civil date. A day that does
// not exist in the target month (Feb 29) clamps to the month's last day.
func yearsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	last := time.Date(y-n, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return time.Date(y-n, m, min(d, last), 0, 0, 0, 0, time.UTC)
}

func Donor(d models.Donor, today time.Time) error {
	c := newChecker(today)
	c.length("firstName", d.FirstName, 2, 100)
	c.length("lastName", d.LastName, 2, 100)
	if birth, ok := c.day("birthDate", d.BirthDate); ok {
		if birth.After(yearsBefore(c.today, adultAge)) {
			c.fail("birthDate", "donor must be at least %d years old", adultAge)
		}
	}
	if !d.Gender.Valid() {
		c.fail("gender", "must be MALE or FEMALE")
	}
	if !idNumberRe.MatchString(d.IDNumber) {
		c.fail("idNumber", "must be exactly 10 letters or digits")
	}
	if !d.BloodType.Valid() {
		c.fail("bloodType", "unknown blood type %q", d.BloodType)
	}
	c.length("transplantRestrictions", d.TransplantRestrictions, 0, 500)
	return c.err()
}

func Material(m models.BiologicalMaterial, today time.Time) error {
	c := newChecker(today)
	c.length("materialName", m.MaterialName, 2, 100)
	if exp, ok := c.day("expirationDate", m.ExpirationDate); ok && exp.Before(c.today) {
		c.fail("expirationDate", "cannot be in the past")
	}
	c.notAfterToday("transferDate", m.TransferDate)
	if !m.Status.Valid() {
		c.fail("status", "unknown status %q", m.Status)
	}
	c.between("idealTemperature", m.IdealTemperature, -100, 100)
	c.between("idealOxygenLevel", m.IdealOxygenLevel, 0, 100)
	c.between("idealHumidity", m.IdealHumidity, 0, 100)
	c.ref("donorID", m.DonorRef())
	return c.err()
}

func Condition(sc models.StorageCondition, today time.Time) error {
	c := newChecker(today)
	c.between("temperature", sc.Temperature, -100, 100)
	c.between("oxygenLevel", sc.OxygenLevel, 0, 100)
	c.between("humidity", sc.Humidity, 0, 100)
	c.notAfterToday("measurementTime", sc.MeasurementTime)
	c.ref("materialID", sc.MaterialRef())
	return c.err()
}

func Notification(n models.Notification, today time.Time) error {
	c := newChecker(today)
	c.length("eventType", n.EventType, 2, 500)
	c.length("details", n.Details, 5, 500)
	c.notAfterToday("notificationTime", n.NotificationTime)
	c.ref("materialID", n.MaterialRef())
	return c.err()
}

func EventLog(e models.EventLog, today time.Time) error {
	c := newChecker(today)
	c.length("actionDetails", e.ActionDetails, 2, 1000)
	c.notAfterToday("actionTime", e.ActionTime)
	c.ref("creatorID", e.CreatorRef())
	return c.err()
}

// User checks an account form. The password is mandatory only when creating.
func User(u models.User, creating bool) error {
	c := newChecker(time.Now())
	c.length("first_name", u.FirstName, 2, 255)
	c.length("last_name", u.LastName, 2, 255)
	c.length("role", u.Role, 2, 255)
	if !u.AccessRights.Valid() {
		c.fail("access_rights", "must be FULL, READ_ALL or READ_ONLY")
	}
	c.length("login", u.Login, 2, 100)
	if u.Login != "" && !emailRe.MatchString(u.Login) {
		c.fail("login", "must be an e-mail address")
	}
	if creating || u.Password != "" {
		if utf8.RuneCountInString(u.Password) < 6 {
			c.fail("password", "must be at least 6 characters")
		}
	}
	return c.err()
}
