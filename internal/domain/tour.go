// Package domain contains the core data types for the Fahrerportal backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler, wizard).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType classifies the vehicle being moved.
// Electric vehicles change the handover protocol: the charge level replaces
// the fuel level and the charging-cable check becomes mandatory.
type VehicleType string

const (
	VehiclePKW         VehicleType = "pkw"
	VehicleElektro     VehicleType = "elektro"
	VehicleTransporter VehicleType = "transporter"
)

// Valid reports whether vt is one of the known vehicle types.
func (vt VehicleType) Valid() bool {
	switch vt {
	case VehiclePKW, VehicleElektro, VehicleTransporter:
		return true
	}
	return false
}

// IsElectric reports whether the vehicle needs the electric-specific
// protocol fields (charge level, charging cable).
func (vt VehicleType) IsElectric() bool { return vt == VehicleElektro }

// TourStatus is the lifecycle state of a Tour. Tours progress strictly
// forward and are never deleted once completed (soft lifecycle only).
type TourStatus string

const (
	TourNew         TourStatus = "new"
	TourPickupOpen  TourStatus = "pickup_open"
	TourInTransit   TourStatus = "in_transit"
	TourDropoffOpen TourStatus = "dropoff_open"
	TourCompleted   TourStatus = "completed"
)

// tourTransitions encodes the allowed status progression as data.
// Completion is terminal; there is no backward edge anywhere.
var tourTransitions = map[TourStatus][]TourStatus{
	TourNew:         {TourPickupOpen},
	TourPickupOpen:  {TourInTransit},
	TourInTransit:   {TourDropoffOpen},
	TourDropoffOpen: {TourCompleted},
}

// CanTransitionTour reports whether a tour may move from one status to another.
func CanTransitionTour(from, to TourStatus) bool {
	for _, next := range tourTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Stop is one endpoint of a tour: an address plus the contact person the
// driver meets there and the agreed time window.
type Stop struct {
	Address      string     `json:"address"`
	ContactName  string     `json:"contact_name"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	WindowFrom   *time.Time `json:"window_from,omitempty"`
	WindowTo     *time.Time `json:"window_to,omitempty"`
}

// Tour represents one vehicle-movement assignment created by dispatch.
// DistanceKm may be zero when the distance service failed at creation time
// and dispatch chose to enter it later.
type Tour struct {
	ID          uuid.UUID   `json:"id"`
	TourNumber  string      `json:"tour_number"`
	VehicleType VehicleType `json:"vehicle_type"`
	Plate       string      `json:"plate"`
	VIN         string      `json:"vin,omitempty"`
	Pickup      Stop        `json:"pickup"`
	Dropoff     Stop        `json:"dropoff"`
	DistanceKm  float64     `json:"distance_km"`
	DriverID    *uuid.UUID  `json:"driver_id,omitempty"` // nil until a driver is assigned
	Status      TourStatus  `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
