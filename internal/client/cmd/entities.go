package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"biokeeper/internal/client/api"
	"biokeeper/internal/client/listing"
	"biokeeper/internal/client/page"
	"biokeeper/internal/client/session"
	"biokeeper/internal/client/validate"
	"biokeeper/internal/shared/models"
)

const stampLayout = "2006-01-02T15:04:05"

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func donorRefs(c *api.Client, actor int64, log *zap.Logger) (page.Loader, func(*listing.Refs)) {
	r := page.NewReference[models.Donor](c.Donors(), actor, log)
	return r, func(refs *listing.Refs) { refs.Donors = listing.Donors(r.Items()) }
}

func materialRefs(c *api.Client, actor int64, log *zap.Logger) (page.Loader, func(*listing.Refs)) {
	r := page.NewReference[models.BiologicalMaterial](c.Materials(), actor, log)
	return r, func(refs *listing.Refs) { refs.Materials = listing.Materials(r.Items()) }
}

func userRefs(c *api.Client, actor int64, log *zap.Logger) (page.Loader, func(*listing.Refs)) {
	r := page.NewReference[models.User](c.Users(), actor, log)
	return r, func(refs *listing.Refs) { refs.Users = listing.Users(r.Items()) }
}

func newDonorsCmd(e *env) *cobra.Command {
	type D = models.Donor
	return resource[D, D]{
		use:     "donors",
		aliases: []string{"donor"},
		short:   "Manage donors",
		col:     (*api.Client).Donors,
		table:   listing.DonorTable,
		payload: D.Payload,
		check:   func(d D, today time.Time, _ bool) error { return validate.Donor(d, today) },
		fields: []field[D]{
			text("first-name", "first name", func(d *D) *string { return &d.FirstName }),
			text("last-name", "last name", func(d *D) *string { return &d.LastName }),
			stamp("birth-date", "birth date, YYYY-MM-DD", func(d *D) *models.Timestamp { return &d.BirthDate }),
			code("gender", "MALE or FEMALE", func(d *D) *models.Gender { return &d.Gender }),
			text("id-number", "10 letters or digits", func(d *D) *string { return &d.IDNumber }),
			code("blood-type", "A_POS, A_NEG, B_POS, B_NEG, AB_POS, AB_NEG, O_POS or O_NEG", func(d *D) *models.BloodType { return &d.BloodType }),
			text("restrictions", "transplant restrictions", func(d *D) *string { return &d.TransplantRestrictions }),
		},
		filters: func(fs *pflag.FlagSet) func() listing.Predicate[D] {
			var f listing.DonorFilter
			fs.StringVar(&f.Name, "name", "", "first or last name contains")
			bt := fs.String("blood-type", "", "blood type code")
			return func() listing.Predicate[D] {
				f.BloodType = models.BloodType(upper(*bt))
				return f.Predicate()
			}
		},
	}.command(e)
}

func newMaterialsCmd(e *env) *cobra.Command {
	type M = models.BiologicalMaterial
	return resource[M, models.MaterialPayload]{
		use:     "materials",
		aliases: []string{"material"},
		short:   "Manage biological materials",
		col:     (*api.Client).Materials,
		table:   listing.MaterialTable,
		payload: M.Payload,
		check:   func(m M, today time.Time, _ bool) error { return validate.Material(m, today) },
		fields: []field[M]{
			text("name", "material name", func(m *M) *string { return &m.MaterialName }),
			stamp("expiration-date", "expiration date, YYYY-MM-DD", func(m *M) *models.Timestamp { return &m.ExpirationDate }),
			code("status", "AVAILABLE, DONATED or DISPOSED", func(m *M) *models.DonationStatus { return &m.Status }),
			stamp("transfer-date", "transfer date", func(m *M) *models.Timestamp { return &m.TransferDate }),
			number("ideal-temperature", "ideal temperature, °C", func(m *M) *float64 { return &m.IdealTemperature }),
			number("ideal-oxygen", "ideal oxygen level, %", func(m *M) *float64 { return &m.IdealOxygenLevel }),
			number("ideal-humidity", "ideal humidity, %", func(m *M) *float64 { return &m.IdealHumidity }),
			ref("donor", "donor id", func(m *M, id int64) { m.Donor = &models.Donor{DonorID: id} }),
		},
		prepare: func(m *M, _ session.Session, now time.Time) {
			m.Status = models.StatusAvailable
			m.TransferDate = models.Timestamp(now.Format("2006-01-02"))
		},
		filters: func(fs *pflag.FlagSet) func() listing.Predicate[M] {
			var f listing.MaterialFilter
			fs.StringVar(&f.Name, "name", "", "material name contains")
			bt := fs.String("blood-type", "", "donor blood type code")
			st := fs.String("status", "", "status code")
			return func() listing.Predicate[M] {
				f.BloodType = models.BloodType(upper(*bt))
				f.Status = models.DonationStatus(upper(*st))
				return f.Predicate()
			}
		},
		refs: []refLoader{donorRefs},
	}.command(e)
}

func newConditionsCmd(e *env) *cobra.Command {
	type C = models.StorageCondition
	return resource[C, models.ConditionPayload]{
		use:     "conditions",
		aliases: []string{"condition"},
		short:   "Manage storage condition readings",
		col:     (*api.Client).Conditions,
		table:   listing.ConditionTable,
		payload: C.Payload,
		check:   func(c C, today time.Time, _ bool) error { return validate.Condition(c, today) },
		fields: []field[C]{
			number("temperature", "temperature, °C", func(c *C) *float64 { return &c.Temperature }),
			number("oxygen", "oxygen level, %", func(c *C) *float64 { return &c.OxygenLevel }),
			number("humidity", "humidity, %", func(c *C) *float64 { return &c.Humidity }),
			stamp("measured-at", "measurement time (default now)", func(c *C) *models.Timestamp { return &c.MeasurementTime }),
			ref("material", "material id", func(c *C, id int64) { c.Material = &models.BiologicalMaterial{MaterialID: id} }),
		},
		prepare: func(c *C, _ session.Session, now time.Time) {
			c.MeasurementTime = models.Timestamp(now.Format(stampLayout))
		},
		filters: func(fs *pflag.FlagSet) func() listing.Predicate[C] {
			var f listing.ConditionFilter
			fs.StringVar(&f.ZoneName, "zone-name", "", "zone name contains")
			z := fs.String("zone", "", "zone code: GREEN, YELLOW or RED")
			fs.Int64Var(&f.MaterialID, "material", 0, "material id")
			return func() listing.Predicate[C] {
				f.Zone = models.StorageZone(upper(*z))
				return f.Predicate()
			}
		},
		refs: []refLoader{materialRefs},
	}.command(e, newPreviewCmd(e))
}

func newNotificationsCmd(e *env) *cobra.Command {
	type N = models.Notification
	return resource[N, models.NotificationPayload]{
		use:     "notifications",
		aliases: []string{"notification"},
		short:   "Manage notifications",
		col:     (*api.Client).Notifications,
		table:   listing.NotificationTable,
		payload: N.Payload,
		check:   func(n N, today time.Time, _ bool) error { return validate.Notification(n, today) },
		fields: []field[N]{
			text("event-type", "event type", func(n *N) *string { return &n.EventType }),
			text("details", "details", func(n *N) *string { return &n.Details }),
			stamp("time", "notification time (default now)", func(n *N) *models.Timestamp { return &n.NotificationTime }),
			ref("material", "material id", func(n *N, id int64) { n.Material = &models.BiologicalMaterial{MaterialID: id} }),
		},
		prepare: func(n *N, _ session.Session, now time.Time) {
			n.NotificationTime = models.Timestamp(now.Format(stampLayout))
		},
		filters: func(fs *pflag.FlagSet) func() listing.Predicate[N] {
			var f listing.NotificationFilter
			fs.Int64Var(&f.MaterialID, "material", 0, "material id")
			return func() listing.Predicate[N] { return f.Predicate() }
		},
		refs: []refLoader{materialRefs},
	}.command(e)
}

func newEventLogsCmd(e *env) *cobra.Command {
	type L = models.EventLog
	return resource[L, models.EventLogPayload]{
		use:     "eventlogs",
		aliases: []string{"eventlog", "event-logs"},
		short:   "Read and manage the event log",
		col:     (*api.Client).EventLogs,
		table:   listing.EventLogTable,
		payload: L.Payload,
		check:   func(l L, today time.Time, _ bool) error { return validate.EventLog(l, today) },
		fields: []field[L]{
			text("details", "action details", func(l *L) *string { return &l.ActionDetails }),
			stamp("time", "action time (default now)", func(l *L) *models.Timestamp { return &l.ActionTime }),
			ref("creator", "creator user id (default the signed-in user)", func(l *L, id int64) { l.Creator = &models.User{UserID: id} }),
		},
		prepare: func(l *L, sess session.Session, now time.Time) {
			l.ActionTime = models.Timestamp(now.Format(stampLayout))
			l.Creator = &models.User{UserID: sess.ActorID}
		},
		filters: func(fs *pflag.FlagSet) func() listing.Predicate[L] {
			var f listing.EventLogFilter
			fs.StringVar(&f.Details, "details", "", "action details contain")
			fs.Int64Var(&f.CreatorID, "creator", 0, "creator user id")
			return func() listing.Predicate[L] { return f.Predicate() }
		},
		refs: []refLoader{userRefs},
	}.command(e)
}

func newUsersCmd(e *env) *cobra.Command {
	type U = models.User
	return resource[U, U]{
		use:     "users",
		aliases: []string{"user"},
		short:   "Manage user accounts",
		col:     (*api.Client).Users,
		table:   listing.UserTable,
		payload: U.Payload,
		check:   func(u U, _ time.Time, creating bool) error { return validate.User(u, creating) },
		fields: []field[U]{
			text("first-name", "first name", func(u *U) *string { return &u.FirstName }),
			text("last-name", "last name", func(u *U) *string { return &u.LastName }),
			text("role", "job role", func(u *U) *string { return &u.Role }),
			code("access", "FULL, READ_ALL or READ_ONLY", func(u *U) *models.AccessRights { return &u.AccessRights }),
			text("login", "account e-mail", func(u *U) *string { return &u.Login }),
			text("password", "password", func(u *U) *string { return &u.Password }),
		},
		filters: func(fs *pflag.FlagSet) func() listing.Predicate[U] {
			var f listing.UserFilter
			fs.StringVar(&f.Query, "query", "", "name or login contains")
			acc := fs.String("access", "", "access rights code")
			return func() listing.Predicate[U] {
				f.Access = models.AccessRights(upper(*acc))
				return f.Predicate()
			}
		},
	}.command(e)
}
