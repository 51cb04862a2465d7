package models

// Reference objects replace expanded related entities on write requests.
type (
	DonorRef    struct{ DonorID int64 `json:"donorID"` }
	MaterialRef struct{ MaterialID int64 `json:"materialID"` }
	UserRef     struct{ UserID int64 `json:"userID"` }
)

type MaterialPayload struct {
	MaterialName     string         `json:"materialName"`
	ExpirationDate   Timestamp      `json:"expirationDate"`
	Status           DonationStatus `json:"status"`
	TransferDate     Timestamp      `json:"transferDate"`
	IdealTemperature float64        `json:"idealTemperature"`
	IdealOxygenLevel float64        `json:"idealOxygenLevel"`
	IdealHumidity    float64        `json:"idealHumidity"`
	DonorID          DonorRef       `json:"donorID"`
}

type ConditionPayload struct {
	Temperature     float64     `json:"temperature"`
	OxygenLevel     float64     `json:"oxygenLevel"`
	Humidity        float64     `json:"humidity"`
	MeasurementTime Timestamp   `json:"measurementTime"`
	MaterialID      MaterialRef `json:"materialID"`
}

type NotificationPayload struct {
	EventType        string      `json:"eventType"`
	Details          string      `json:"details"`
	NotificationTime Timestamp   `json:"notificationTime"`
	MaterialID       MaterialRef `json:"materialID"`
}

type EventLogPayload struct {
	ActionDetails string    `json:"actionDetails"`
	ActionTime    Timestamp `json:"actionTime"`
	CreatorID     UserRef   `json:"creatorID"`
}

// Donors and users carry no references, so they are written as read.

func (d Donor) Payload() Donor { d.DonorID = 0; return d }

func (u User) Payload() User { u.UserID = 0; return u }

func (m BiologicalMaterial) Payload() MaterialPayload {
	return MaterialPayload{
		MaterialName:     m.MaterialName,
		ExpirationDate:   m.ExpirationDate,
		Status:           m.Status,
		TransferDate:     m.TransferDate,
		IdealTemperature: m.IdealTemperature,
		IdealOxygenLevel: m.IdealOxygenLevel,
		IdealHumidity:    m.IdealHumidity,
		DonorID:          DonorRef{DonorID: m.DonorRef()},
	}
}

func (c StorageCondition) Payload() ConditionPayload {
	return ConditionPayload{
		Temperature:     c.Temperature,
		OxygenLevel:     c.OxygenLevel,
		Humidity:        c.Humidity,
		MeasurementTime: c.MeasurementTime,
		MaterialID:      MaterialRef{MaterialID: c.MaterialRef()},
	}
}

func (n Notification) Payload() NotificationPayload {
	return NotificationPayload{
		EventType:        n.EventType,
		Details:          n.Details,
		NotificationTime: n.NotificationTime,
		MaterialID:       MaterialRef{MaterialID: n.MaterialRef()},
	}
}

func (e EventLog) Payload() EventLogPayload {
	return EventLogPayload{
		ActionDetails: e.ActionDetails,
		ActionTime:    e.ActionTime,
		CreatorID:     UserRef{UserID: e.CreatorRef()},
	}
}
