package testserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"biokeeper/internal/shared/models"
)

// entity wires one collection's routes to its table.
type entity[T, P any] struct {
	path       string
	singular   string
	scoped     bool
	openCreate bool
	// bareWrites mounts create and update without the admin segment.
	bareWrites bool
	getPrefix  string

	rows  func(s *Server) *table[T]
	setID func(*T, int64)
	// build turns a write body into a row; a non-empty msg rejects it.
	build func(s *Server, p P) (row T, msg string)
	// expand resolves references for reading.
	expand func(s *Server, v T) T
	// conflict reports a duplicate of v among other rows.
	conflict func(s *Server, v T, id int64) bool
	// carry copies fields an update may omit from the stored row.
	carry func(old, v T) T
}

func idParam(w http.ResponseWriter, req *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(req, name), 10, 64)
	if err != nil {
		writeDetails(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func mount[T, P any](s *Server, mux chi.Router, e entity[T, P]) {
	base := "/api/" + e.path
	if e.scoped {
		mux.Get(base+"/admin/{actor}", e.list(s))
		mux.Get(base+"/admin/{actor}/{id}", e.get(s))
	} else {
		mux.Get(base, e.list(s))
		mux.Get(base+"/"+e.getPrefix+"{id}", e.get(s))
	}
	switch {
	case e.openCreate:
		mux.Post(base+"/admin/add", e.create(s))
	case e.bareWrites:
		mux.Post(base+"/{actor}/add", e.create(s))
	default:
		mux.Post(base+"/admin/{actor}/add", e.create(s))
	}
	if e.bareWrites {
		mux.Put(base+"/{actor}/{id}", e.update(s))
	} else {
		mux.Put(base+"/admin/{actor}/{id}", e.update(s))
	}
	mux.Delete(base+"/admin/{actor}/{id}", e.remove(s))
}

// audited rejects scoped reads by actors without audit rights. Callers hold s.mu.
func (e entity[T, P]) audited(s *Server, w http.ResponseWriter, req *http.Request) bool {
	if !e.scoped {
		return true
	}
	actor, ok := idParam(w, req, "actor")
	if !ok {
		return false
	}
	if !s.canAudit(actor) {
		w.WriteHeader(http.StatusForbidden)
		return false
	}
	return true
}

func (e entity[T, P]) list(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !e.audited(s, w, req) {
			return
		}
		rows := e.rows(s).all()
		for i := range rows {
			rows[i] = e.expand(s, rows[i])
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (e entity[T, P]) get(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !e.audited(s, w, req) {
			return
		}
		id, ok := idParam(w, req, "id")
		if !ok {
			return
		}
		v, found := e.rows(s).get(id)
		if !found {
			writeDetails(w, http.StatusNotFound, e.singular+" not found")
			return
		}
		writeJSON(w, http.StatusOK, e.expand(s, v))
	}
}

// decodeWrite reads the body and checks the actor. Callers hold s.mu.
func (e entity[T, P]) decodeWrite(s *Server, w http.ResponseWriter, req *http.Request, needActor bool) (T, bool) {
	var zero T
	if needActor {
		actor, ok := idParam(w, req, "actor")
		if !ok {
			return zero, false
		}
		if !s.canWrite(actor) {
			writeDetails(w, http.StatusForbidden, "Access denied")
			return zero, false
		}
	}
	var p P
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		writeDetails(w, http.StatusBadRequest, "invalid json")
		return zero, false
	}
	row, msg := e.build(s, p)
	if msg != "" {
		writeDetails(w, http.StatusBadRequest, msg)
		return zero, false
	}
	return row, true
}

func (e entity[T, P]) create(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		row, ok := e.decodeWrite(s, w, req, !e.openCreate)
		if !ok {
			return
		}
		if e.conflict != nil && e.conflict(s, row, 0) {
			writeJSON(w, http.StatusInternalServerError, models.ErrorBody{Message: "could not execute statement"})
			return
		}
		row = e.rows(s).add(row, e.setID)
		writeJSON(w, http.StatusCreated, e.expand(s, row))
	}
}

func (e entity[T, P]) update(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		row, ok := e.decodeWrite(s, w, req, true)
		if !ok {
			return
		}
		id, ok := idParam(w, req, "id")
		if !ok {
			return
		}
		if e.conflict != nil && e.conflict(s, row, id) {
			writeJSON(w, http.StatusInternalServerError, models.ErrorBody{Message: "could not execute statement"})
			return
		}
		if old, found := e.rows(s).get(id); found && e.carry != nil {
			row = e.carry(old, row)
		}
		if !e.rows(s).put(id, row, e.setID) {
			writeDetails(w, http.StatusNotFound, e.singular+" not found")
			return
		}
		writeJSON(w, http.StatusOK, e.expand(s, row))
	}
}

func (e entity[T, P]) remove(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		actor, ok := idParam(w, req, "actor")
		if !ok {
			return
		}
		if !s.canWrite(actor) {
			writeDetails(w, http.StatusForbidden, "Access denied")
			return
		}
		id, ok := idParam(w, req, "id")
		if !ok {
			return
		}
		if !e.rows(s).remove(id) {
			writeDetails(w, http.StatusNotFound, e.singular+" not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func same[T any](_ *Server, v T) T { return v }

var donorEntity = entity[models.Donor, models.Donor]{
	path:     "donors",
	singular: "Donor",
	rows:     func(s *Server) *table[models.Donor] { return s.donors },
	setID:    func(d *models.Donor, id int64) { d.DonorID = id },
	build:    func(_ *Server, d models.Donor) (models.Donor, string) { return d, "" },
	expand:   same[models.Donor],
}

var materialEntity = entity[models.BiologicalMaterial, models.MaterialPayload]{
	path:       "biological-materials",
	singular:   "Biological material",
	bareWrites: true,
	rows:       func(s *Server) *table[models.BiologicalMaterial] { return s.materials },
	setID:      func(m *models.BiologicalMaterial, id int64) { m.MaterialID = id },
	build: func(s *Server, p models.MaterialPayload) (models.BiologicalMaterial, string) {
		if _, ok := s.donors.get(p.DonorID.DonorID); !ok {
			return models.BiologicalMaterial{}, "Donor not found"
		}
		return models.BiologicalMaterial{
			MaterialName:     p.MaterialName,
			ExpirationDate:   p.ExpirationDate,
			Status:           p.Status,
			TransferDate:     p.TransferDate,
			IdealTemperature: p.IdealTemperature,
			IdealOxygenLevel: p.IdealOxygenLevel,
			IdealHumidity:    p.IdealHumidity,
			Donor:            &models.Donor{DonorID: p.DonorID.DonorID},
		}, ""
	},
	expand: (*Server).expandMaterial,
}

var conditionEntity = entity[models.StorageCondition, models.ConditionPayload]{
	path:     "storage-conditions",
	singular: "Storage condition",
	rows:     func(s *Server) *table[models.StorageCondition] { return s.conds },
	setID:    func(c *models.StorageCondition, id int64) { c.RecordID = id },
	build: func(s *Server, p models.ConditionPayload) (models.StorageCondition, string) {
		m, ok := s.materials.get(p.MaterialID.MaterialID)
		if !ok {
			return models.StorageCondition{}, "Biological material not found"
		}
		c := models.StorageCondition{
			Temperature:     p.Temperature,
			OxygenLevel:     p.OxygenLevel,
			Humidity:        p.Humidity,
			MeasurementTime: p.MeasurementTime,
			Material:        &models.BiologicalMaterial{MaterialID: m.MaterialID},
		}
		c.Zone = scoreZone(c, m)
		return c, ""
	},
	expand: func(s *Server, c models.StorageCondition) models.StorageCondition {
		c.Material = s.materialRef(c.MaterialRef())
		return c
	},
}

var notificationEntity = entity[models.Notification, models.NotificationPayload]{
	path:     "notifications",
	singular: "Notification",
	rows:     func(s *Server) *table[models.Notification] { return s.notes },
	setID:    func(n *models.Notification, id int64) { n.NotificationID = id },
	build: func(s *Server, p models.NotificationPayload) (models.Notification, string) {
		if _, ok := s.materials.get(p.MaterialID.MaterialID); !ok {
			return models.Notification{}, "Biological material not found"
		}
		return models.Notification{
			EventType:        p.EventType,
			Details:          p.Details,
			NotificationTime: p.NotificationTime,
			Material:         &models.BiologicalMaterial{MaterialID: p.MaterialID.MaterialID},
		}, ""
	},
	expand: func(s *Server, n models.Notification) models.Notification {
		n.Material = s.materialRef(n.MaterialRef())
		return n
	},
}

var eventLogEntity = entity[models.EventLog, models.EventLogPayload]{
	path:     "event-logs",
	singular: "Event log",
	scoped:   true,
	rows:     func(s *Server) *table[models.EventLog] { return s.logs },
	setID:    func(e *models.EventLog, id int64) { e.EventLogID = id },
	build: func(s *Server, p models.EventLogPayload) (models.EventLog, string) {
		if _, ok := s.users.get(p.CreatorID.UserID); !ok {
			return models.EventLog{}, "User not found"
		}
		return models.EventLog{
			ActionDetails: p.ActionDetails,
			ActionTime:    p.ActionTime,
			Creator:       &models.User{UserID: p.CreatorID.UserID},
		}, ""
	},
	expand: func(s *Server, e models.EventLog) models.EventLog {
		if u, ok := s.users.get(e.CreatorRef()); ok {
			u.Password = ""
			e.Creator = &u
		}
		return e
	},
}

var userEntity = entity[models.User, models.User]{
	path:       "user",
	singular:   "User",
	openCreate: true,
	getPrefix:  "id/",
	rows:       func(s *Server) *table[models.User] { return s.users },
	setID:      func(u *models.User, id int64) { u.UserID = id },
	build:      func(_ *Server, u models.User) (models.User, string) { return u, "" },
	expand: func(_ *Server, u models.User) models.User {
		u.Password = ""
		return u
	},
	carry: func(old, u models.User) models.User {
		if u.Password == "" {
			u.Password = old.Password
		}
		return u
	},
	conflict: func(s *Server, u models.User, id int64) bool {
		for _, other := range s.users.all() {
			if other.UserID != id && strings.EqualFold(other.Login, u.Login) {
				return true
			}
		}
		return false
	},
}

// expandMaterial embeds the current donor row. Callers hold s.mu.
func (s *Server) expandMaterial(m models.BiologicalMaterial) models.BiologicalMaterial {
	if d, ok := s.donors.get(m.DonorRef()); ok {
		m.Donor = &d
	}
	return m
}

// materialRef resolves a material id for embedding. Callers hold s.mu.
func (s *Server) materialRef(id int64) *models.BiologicalMaterial {
	m, ok := s.materials.get(id)
	if !ok {
		return &models.BiologicalMaterial{MaterialID: id}
	}
	m = s.expandMaterial(m)
	return &m
}
