package enrich

// Unknown is the placeholder for any attribute no fact or metadata entry resolves
const Unknown = "Unknown"

// BusinessSummary is the fixed-shape profile assembled from a user's facts
type BusinessSummary struct {
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Revenue   string    `json:"revenue"`
	Location  string    `json:"location"`
	Services  Services  `json:"services"`
	Contact   Contact   `json:"contact"`
	Insurance Insurance `json:"insurance"`
	Equipment Equipment `json:"equipment"`
}

// Services describes what the business does and how its work splits up
type Services struct {
	Type         string       `json:"type"`
	ServiceSplit ServiceSplit `json:"service_split"`
}

// ServiceSplit carries the revenue split between the two lines of work
type ServiceSplit struct {
	Mechanic string `json:"mechanic"`
	Towing   string `json:"towing"`
}

// Contact is the business point of contact
type Contact struct {
	Owner string `json:"owner"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Insurance captures the coverage the business is shopping for
type Insurance struct {
	Type          string `json:"type"`
	Deductible    string `json:"deductible"`
	DesiredLimits string `json:"desired_limits"`
}

// Equipment lists insurable equipment extracted from the facts
type Equipment struct {
	TowTruck TowTruck `json:"tow_truck"`
}

// TowTruck describes the tow vehicle and its declared value and range
type TowTruck struct {
	Model           string `json:"model"`
	Value           string `json:"value"`
	OperatingRadius string `json:"operating_radius"`
}
