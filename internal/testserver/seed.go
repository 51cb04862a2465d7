package testserver

import "biokeeper/internal/shared/models"

// The Seed helpers store rows directly, bypassing access checks. They
// return the row with its assigned id.

func (s *Server) SeedUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.add(u, userEntity.setID)
}

func (s *Server) SeedDonor(d models.Donor) models.Donor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.donors.add(d, donorEntity.setID)
}

func (s *Server) SeedMaterial(m models.BiologicalMaterial) models.BiologicalMaterial {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Donor != nil {
		m.Donor = &models.Donor{DonorID: m.Donor.DonorID}
	}
	return s.materials.add(m, materialEntity.setID)
}

// SeedCondition classifies c against its material unless a zone is given.
func (s *Server) SeedCondition(c models.StorageCondition) models.StorageCondition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Zone == "" {
		if m, ok := s.materials.get(c.MaterialRef()); ok {
			c.Zone = scoreZone(c, m)
		}
	}
	if c.Material != nil {
		c.Material = &models.BiologicalMaterial{MaterialID: c.Material.MaterialID}
	}
	return s.conds.add(c, conditionEntity.setID)
}

func (s *Server) SeedNotification(n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.add(n, notificationEntity.setID)
}

func (s *Server) SeedEventLog(e models.EventLog) models.EventLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.add(e, eventLogEntity.setID)
}

func (s *Server) Donors() []models.Donor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.donors.all()
}

func (s *Server) Materials() []models.BiologicalMaterial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materials.all()
}

func (s *Server) Conditions() []models.StorageCondition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conds.all()
}

// Users returns stored accounts, passwords included.
func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.all()
}
