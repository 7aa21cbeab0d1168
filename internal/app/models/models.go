package models

// UserRole defines the user role type
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// TravelStyle is the fixed list of styles a category belongs to
type TravelStyle string

const (
	StyleAdventure  TravelStyle = "adventure"
	StyleRelaxation TravelStyle = "relaxation"
	StyleCulture    TravelStyle = "culture"
	StyleFood       TravelStyle = "food"
	StyleNature     TravelStyle = "nature"
	StyleNightlife  TravelStyle = "nightlife"
	StyleShopping   TravelStyle = "shopping"
)

// TravelStyles lists every known travel style
var TravelStyles = []TravelStyle{
	StyleAdventure, StyleRelaxation, StyleCulture, StyleFood, StyleNature, StyleNightlife, StyleShopping,
}

// IsValid reports whether s is a known travel style
func (s TravelStyle) IsValid() bool {
	for _, known := range TravelStyles {
		if s == known {
			return true
		}
	}
	return false
}

// TransportMode is how a trip gets from stop to stop
type TransportMode string

const (
	TransportWalking   TransportMode = "walking"
	TransportBicycle   TransportMode = "bicycle"
	TransportMotorbike TransportMode = "motorbike"
	TransportCar       TransportMode = "car"
	TransportBus       TransportMode = "bus"
	TransportTrain     TransportMode = "train"
	TransportPlane     TransportMode = "plane"
	TransportMixed     TransportMode = "mixed"
)

// IsValid reports whether m is a known transport mode
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportWalking, TransportBicycle, TransportMotorbike, TransportCar,
		TransportBus, TransportTrain, TransportPlane, TransportMixed:
		return true
	}
	return false
}

// TargetType is the kind of entity feedback and reviews attach to
type TargetType string

const (
	TargetDestination TargetType = "destination"
	TargetEvent       TargetType = "event"
)

// IsValid reports whether t is destination or event
func (t TargetType) IsValid() bool {
	return t == TargetDestination || t == TargetEvent
}
