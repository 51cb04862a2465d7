package listing

import "biokeeper/internal/shared/models"

type DonorFilter struct {
	Name      string
	BloodType models.BloodType
}

func (f DonorFilter) Predicate() Predicate[models.Donor] {
	return All(
		Contains(f.Name,
			func(d models.Donor) string { return d.FirstName },
			func(d models.Donor) string { return d.LastName }),
		Equals(string(f.BloodType), func(d models.Donor) string { return string(d.BloodType) }),
	)
}

type MaterialFilter struct {
	Name      string
	BloodType models.BloodType
	Status    models.DonationStatus
}

// Predicate matches the donor blood type through the embedded donor, so
// materials without one never match a blood type filter.
func (f MaterialFilter) Predicate() Predicate[models.BiologicalMaterial] {
	type M = models.BiologicalMaterial
	return All(
		Contains(f.Name, func(m M) string { return m.MaterialName }),
		Equals(string(f.BloodType), func(m M) string {
			if m.Donor == nil {
				return ""
			}
			return string(m.Donor.BloodType)
		}),
		Equals(string(f.Status), func(m M) string { return string(m.Status) }),
	)
}

type ConditionFilter struct {
	ZoneName   string
	Zone       models.StorageZone
	MaterialID int64
}

func (f ConditionFilter) Predicate() Predicate[models.StorageCondition] {
	type C = models.StorageCondition
	return All(
		Contains(f.ZoneName, func(c C) string { return string(c.Zone) }),
		Equals(string(f.Zone), func(c C) string { return string(c.Zone) }),
		EqualsID(f.MaterialID, C.MaterialRef),
	)
}

type NotificationFilter struct {
	MaterialID int64
}

func (f NotificationFilter) Predicate() Predicate[models.Notification] {
	return All(EqualsID(f.MaterialID, models.Notification.MaterialRef))
}

type EventLogFilter struct {
	Details   string
	CreatorID int64
}

func (f EventLogFilter) Predicate() Predicate[models.EventLog] {
	type E = models.EventLog
	return All(
		Contains(f.Details, func(e E) string { return e.ActionDetails }),
		EqualsID(f.CreatorID, E.CreatorRef),
	)
}

type UserFilter struct {
	Query  string
	Access models.AccessRights
}

func (f UserFilter) Predicate() Predicate[models.User] {
	type U = models.User
	return All(
		Contains(f.Query, U.FullName, func(u U) string { return u.Login }),
		Equals(string(f.Access), func(u U) string { return string(u.AccessRights) }),
	)
}
