package models

// Timestamp is an ISO-8601 string kept exactly as the service sent it.
// Values that do not parse still round-trip unchanged.
type Timestamp string

type BloodType string

const (
	BloodAPos  BloodType = "A_POS"
	BloodANeg  BloodType = "A_NEG"
	BloodBPos  BloodType = "B_POS"
	BloodBNeg  BloodType = "B_NEG"
	BloodABPos BloodType = "AB_POS"
	BloodABNeg BloodType = "AB_NEG"
	BloodOPos  BloodType = "O_POS"
	BloodONeg  BloodType = "O_NEG"
)

// BloodTypes lists every ABO/Rh combination the service accepts.
var BloodTypes = []BloodType{BloodAPos, BloodANeg, BloodBPos, BloodBNeg, BloodABPos, BloodABNeg, BloodOPos, BloodONeg}

var bloodLabels = map[BloodType]string{
	BloodAPos: "A+", BloodANeg: "A-",
	BloodBPos: "B+", BloodBNeg: "B-",
	BloodABPos: "AB+", BloodABNeg: "AB-",
	BloodOPos: "O+", BloodONeg: "O-",
}

// Label returns the short ABO/Rh notation, or "Unknown".
func (b BloodType) Label() string {
	if l, ok := bloodLabels[b]; ok {
		return l
	}
	return "Unknown"
}

func (b BloodType) Valid() bool {
	_, ok := bloodLabels[b]
	return ok
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

type DonationStatus string

const (
	StatusAvailable DonationStatus = "AVAILABLE"
	StatusDonated   DonationStatus = "DONATED"
	StatusDisposed  DonationStatus = "DISPOSED"
)

func (s DonationStatus) Valid() bool {
	return s == StatusAvailable || s == StatusDonated || s == StatusDisposed
}

type StorageZone string

const (
	ZoneGreen  StorageZone = "GREEN"
	ZoneYellow StorageZone = "YELLOW"
	ZoneRed    StorageZone = "RED"
)

type AccessRights string

const (
	AccessFull     AccessRights = "FULL"
	AccessReadAll  AccessRights = "READ_ALL"
	AccessReadOnly AccessRights = "READ_ONLY"
)

func (a AccessRights) Valid() bool {
	return a == AccessFull || a == AccessReadAll || a == AccessReadOnly
}

type Donor struct {
	DonorID                int64     `json:"donorID,omitempty"`
	FirstName              string    `json:"firstName"`
	LastName               string    `json:"lastName"`
	BirthDate              Timestamp `json:"birthDate"`
	Gender                 Gender    `json:"gender"`
	IDNumber               string    `json:"idNumber"`
	BloodType              BloodType `json:"bloodType"`
	TransplantRestrictions string    `json:"transplantRestrictions"`
}

func (d Donor) FullName() string { return d.FirstName + " " + d.LastName }

type BiologicalMaterial struct {
	MaterialID       int64          `json:"materialID,omitempty"`
	MaterialName     string         `json:"materialName"`
	ExpirationDate   Timestamp      `json:"expirationDate"`
	Status           DonationStatus `json:"status"`
	TransferDate     Timestamp      `json:"transferDate"`
	IdealTemperature float64        `json:"idealTemperature"`
	IdealOxygenLevel float64        `json:"idealOxygenLevel"`
	IdealHumidity    float64        `json:"idealHumidity"`
	Donor            *Donor         `json:"donorID"`
}

func (m BiologicalMaterial) DonorRef() int64 {
	if m.Donor == nil {
		return 0
	}
	return m.Donor.DonorID
}

type StorageCondition struct {
	RecordID        int64               `json:"recordID,omitempty"`
	Temperature     float64             `json:"temperature"`
	OxygenLevel     float64             `json:"oxygenLevel"`
	Humidity        float64             `json:"humidity"`
	MeasurementTime Timestamp           `json:"measurementTime"`
	Material        *BiologicalMaterial `json:"materialID"`
	Zone            StorageZone         `json:"storage_zone,omitempty"`
}

func (c StorageCondition) MaterialRef() int64 {
	if c.Material == nil {
		return 0
	}
	return c.Material.MaterialID
}

type Notification struct {
	NotificationID   int64               `json:"notificationID,omitempty"`
	EventType        string              `json:"eventType"`
	Details          string              `json:"details"`
	NotificationTime Timestamp           `json:"notificationTime"`
	Material         *BiologicalMaterial `json:"materialID"`
}

func (n Notification) MaterialRef() int64 {
	if n.Material == nil {
		return 0
	}
	return n.Material.MaterialID
}

type EventLog struct {
	EventLogID    int64     `json:"eventLogID,omitempty"`
	ActionDetails string    `json:"actionDetails"`
	ActionTime    Timestamp `json:"actionTime"`
	Creator       *User     `json:"creatorID"`
}

func (e EventLog) CreatorRef() int64 {
	if e.Creator == nil {
		return 0
	}
	return e.Creator.UserID
}

type User struct {
	UserID       int64        `json:"userID,omitempty"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Role         string       `json:"role"`
	AccessRights AccessRights `json:"access_rights"`
	Login        string       `json:"login"`
	Password     string       `json:"password,omitempty"`
}

func (u User) FullName() string { return u.FirstName + " " + u.LastName }

// LoginRequest is the body of POST /api/user/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ErrorBody is the structured error body some endpoints return.
type ErrorBody struct {
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}
