package listing

import (
	"fmt"
	"strconv"
	"time"

	"biokeeper/internal/client/datefmt"
	"biokeeper/internal/client/zone"
	"biokeeper/internal/shared/models"
)

const unknown = "Unknown"

// Refs carries the side collections and display settings a listing needs
// to resolve references and render dates.
type Refs struct {
	Donors    Lookup[models.Donor]
	Materials Lookup[models.BiologicalMaterial]
	Users     Lookup[models.User]
	Format    datefmt.Format
	Loc       *time.Location
}

func Donors(items []models.Donor) Lookup[models.Donor] {
	return NewLookup(items, func(d models.Donor) int64 { return d.DonorID })
}

func Materials(items []models.BiologicalMaterial) Lookup[models.BiologicalMaterial] {
	return NewLookup(items, func(m models.BiologicalMaterial) int64 { return m.MaterialID })
}

func Users(items []models.User) Lookup[models.User] {
	return NewLookup(items, func(u models.User) int64 { return u.UserID })
}

func (r Refs) DonorName(id int64) string {
	if d, ok := r.Donors.Find(id); ok {
		return d.FullName()
	}
	return unknown
}

func (r Refs) MaterialName(id int64) string {
	if m, ok := r.Materials.Find(id); ok {
		return m.MaterialName
	}
	return unknown
}

// NotificationMaterial labels the material of a notification. A missing
// reference reads "N/A"; an unresolved one falls back to the embedded name.
func (r Refs) NotificationMaterial(ref *models.BiologicalMaterial) string {
	if ref == nil {
		return "N/A"
	}
	if m, ok := r.Materials.Find(ref.MaterialID); ok {
		return fmt.Sprintf("%s (ID: %d)", m.MaterialName, m.MaterialID)
	}
	if ref.MaterialName != "" {
		return ref.MaterialName
	}
	return unknown
}

func (r Refs) UserName(id int64) string {
	if u, ok := r.Users.Find(id); ok {
		return u.FullName()
	}
	return unknown
}

// The mobile format shows one short local value and echoes what it cannot
// parse; the others render through Date and DateTime.

func (r Refs) date(ts models.Timestamp) string {
	if r.Format == datefmt.Mobile {
		return datefmt.Compact(string(ts), false, r.Loc)
	}
	return datefmt.Date(string(ts), r.Format, r.Loc)
}

func (r Refs) dateTime(ts models.Timestamp) string {
	if r.Format == datefmt.Mobile {
		return datefmt.Compact(string(ts), true, r.Loc)
	}
	return datefmt.DateTime(string(ts), r.Format, r.Loc).String()
}

func number(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func timeKey(ts models.Timestamp) Value { return Time(string(ts)) }

func DonorTable(r Refs) Table[models.Donor] {
	return Table[models.Donor]{Columns: []Column[models.Donor]{
		{
			Key: "name", Header: "Name",
			Sort: func(d models.Donor) Value { return Text(d.FullName()) },
			Show: models.Donor.FullName,
		},
		{
			Key: "birthDate", Header: "Birth date",
			Sort: func(d models.Donor) Value { return timeKey(d.BirthDate) },
			Show: func(d models.Donor) string { return r.date(d.BirthDate) },
		},
		{
			Key: "gender", Header: "Gender",
			Sort: func(d models.Donor) Value { return Text(string(d.Gender)) },
			Show: func(d models.Donor) string { return string(d.Gender) },
		},
		{
			Key: "idNumber", Header: "ID number",
			Sort: func(d models.Donor) Value { return Text(d.IDNumber) },
			Show: func(d models.Donor) string { return d.IDNumber },
		},
		{
			Key: "bloodType", Header: "Blood type",
			Sort: func(d models.Donor) Value { return Text(d.BloodType.Label()) },
			Show: func(d models.Donor) string { return d.BloodType.Label() },
		},
		{
			Key: "transplantRestrictions", Header: "Transplant restrictions",
			Sort: func(d models.Donor) Value { return Text(d.TransplantRestrictions) },
			Show: func(d models.Donor) string { return d.TransplantRestrictions },
		},
	}}
}

func MaterialTable(r Refs) Table[models.BiologicalMaterial] {
	type M = models.BiologicalMaterial
	return Table[M]{Columns: []Column[M]{
		{
			Key: "materialName", Header: "Material",
			Sort: func(m M) Value { return Text(m.MaterialName) },
			Show: func(m M) string { return m.MaterialName },
		},
		{
			Key: "donor", Header: "Donor",
			Sort: func(m M) Value { return Text(r.DonorName(m.DonorRef())) },
			Show: func(m M) string { return r.DonorName(m.DonorRef()) },
		},
		{
			Key: "expirationDate", Header: "Expires",
			Sort: func(m M) Value { return timeKey(m.ExpirationDate) },
			Show: func(m M) string { return r.date(m.ExpirationDate) },
		},
		{
			Key: "transferDate", Header: "Transferred",
			Sort: func(m M) Value { return timeKey(m.TransferDate) },
			Show: func(m M) string { return r.date(m.TransferDate) },
		},
		{
			Key: "status", Header: "Status",
			Sort: func(m M) Value { return Text(string(m.Status)) },
			Show: func(m M) string { return zone.Status(m.Status).Label },
		},
	}}
}

func ConditionTable(r Refs) Table[models.StorageCondition] {
	type C = models.StorageCondition
	return Table[C]{Columns: []Column[C]{
		{
			Key: "materialName", Header: "Material",
			Sort: func(c C) Value { return Text(r.MaterialName(c.MaterialRef())) },
			Show: func(c C) string { return r.MaterialName(c.MaterialRef()) },
		},
		{
			Key: "temperature", Header: "Temperature",
			Sort: func(c C) Value { return Number(c.Temperature) },
			Show: func(c C) string { return number(c.Temperature) },
		},
		{
			Key: "oxygenLevel", Header: "Oxygen",
			Sort: func(c C) Value { return Number(c.OxygenLevel) },
			Show: func(c C) string { return number(c.OxygenLevel) },
		},
		{
			Key: "humidity", Header: "Humidity",
			Sort: func(c C) Value { return Number(c.Humidity) },
			Show: func(c C) string { return number(c.Humidity) },
		},
		{
			Key: "measurementTime", Header: "Measured",
			Sort: func(c C) Value { return timeKey(c.MeasurementTime) },
			Show: func(c C) string { return r.dateTime(c.MeasurementTime) },
		},
		{
			Key: "zone", Header: "Zone",
			Sort: func(c C) Value { return Text(string(c.Zone)) },
			Show: func(c C) string { return zone.Classify(c.Zone).Label },
		},
	}}
}

func NotificationTable(r Refs) Table[models.Notification] {
	type N = models.Notification
	return Table[N]{Columns: []Column[N]{
		{
			Key: "eventType", Header: "Event",
			Sort: func(n N) Value { return Text(n.EventType) },
			Show: func(n N) string { return n.EventType },
		},
		{
			Key: "notificationTime", Header: "Time",
			Sort: func(n N) Value { return timeKey(n.NotificationTime) },
			Show: func(n N) string { return r.dateTime(n.NotificationTime) },
		},
		{
			Key: "material", Header: "Material",
			Sort: func(n N) Value { return Text(r.NotificationMaterial(n.Material)) },
			Show: func(n N) string { return r.NotificationMaterial(n.Material) },
		},
		{
			Key: "details", Header: "Details",
			Sort: func(n N) Value { return Text(n.Details) },
			Show: func(n N) string { return n.Details },
		},
	}}
}

func EventLogTable(r Refs) Table[models.EventLog] {
	type E = models.EventLog
	return Table[E]{Columns: []Column[E]{
		{
			Key: "actionDetails", Header: "Action",
			Sort: func(e E) Value { return Text(e.ActionDetails) },
			Show: func(e E) string { return e.ActionDetails },
		},
		{
			Key: "actionTime", Header: "Time",
			Sort: func(e E) Value { return timeKey(e.ActionTime) },
			Show: func(e E) string { return r.dateTime(e.ActionTime) },
		},
		{
			Key: "creator", Header: "Creator",
			Sort: func(e E) Value { return Text(r.UserName(e.CreatorRef())) },
			Show: func(e E) string { return r.UserName(e.CreatorRef()) },
		},
	}}
}

func UserTable(Refs) Table[models.User] {
	type U = models.User
	return Table[U]{Columns: []Column[U]{
		{
			Key: "name", Header: "Name",
			Sort: func(u U) Value { return Text(u.FullName()) },
			Show: U.FullName,
		},
		{
			Key: "role", Header: "Role",
			Sort: func(u U) Value { return Text(u.Role) },
			Show: func(u U) string { return u.Role },
		},
		{
			Key: "access_rights", Header: "Access",
			Sort: func(u U) Value { return Text(string(u.AccessRights)) },
			Show: func(u U) string { return zone.Access(u.AccessRights).Label },
		},
		{
			Key: "login", Header: "Login",
			Sort: func(u U) Value { return Text(u.Login) },
			Show: func(u U) string { return u.Login },
		},
	}}
}
