package handler

import (
	"net/http"
	"time"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
)

// createTourRequest is the admin payload for POST /tours.
type createTourRequest struct {
	TourNumber  string             `json:"tour_number"`
	VehicleType domain.VehicleType `json:"vehicle_type"`
	Plate       string             `json:"plate"`
	VIN         string             `json:"vin"`
	Pickup      stopPayload        `json:"pickup"`
	Dropoff     stopPayload        `json:"dropoff"`
	DistanceKm  float64            `json:"distance_km"`
}

type stopPayload struct {
	Address      string     `json:"address"`
	ContactName  string     `json:"contact_name"`
	ContactPhone string     `json:"contact_phone"`
	WindowFrom   *time.Time `json:"window_from"`
	WindowTo     *time.Time `json:"window_to"`
}

func (p stopPayload) toDomain() domain.Stop {
	return domain.Stop{
		Address:      p.Address,
		ContactName:  p.ContactName,
		ContactPhone: p.ContactPhone,
		WindowFrom:   p.WindowFrom,
		WindowTo:     p.WindowTo,
	}
}

// createTourResponse is the tour plus an optional distance prefill warning.
// DistanceWarning carries the classified provider code so the admin form can
// surface why the distance stayed at zero.
type createTourResponse struct {
	domain.Tour
	DistanceWarning string `json:"distance_warning,omitempty"`
}

// CreateTour handles POST /tours (admin).
func (s *Server) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req createTourRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, warning, err := s.tours.Create(r.Context(), domain.Tour{
		TourNumber:  req.TourNumber,
		VehicleType: req.VehicleType,
		Plate:       req.Plate,
		VIN:         req.VIN,
		Pickup:      req.Pickup.toDomain(),
		Dropoff:     req.Dropoff.toDomain(),
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createTourResponse{Tour: created, DistanceWarning: warning})
}

// ListTours handles GET /tours (admin).
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := s.tours.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tours})
}

// GetTour handles GET /tours/{tourID} (admin).
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tour, err := s.tours.GetByID(r.Context(), tourID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// AssignTourDriver handles PUT /tours/{tourID}/driver (admin).
func (s *Server) AssignTourDriver(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		DriverID string `json:"driver_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	driverID, err := parseUUIDField(req.DriverID, "driver_id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tour, err := s.tours.AssignDriver(r.Context(), tourID, driverID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// SetTourDistance handles PUT /tours/{tourID}/distance (admin).
func (s *Server) SetTourDistance(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		DistanceKm float64 `json:"distance_km"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.tours.SetDistance(r.Context(), tourID, req.DistanceKm); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyTours handles GET /my/tours (driver).
func (s *Server) ListMyTours(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	tours, err := s.tours.ListByDriver(r.Context(), identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tours})
}

// GetMyTour handles GET /my/tours/{tourID} (driver).
func (s *Server) GetMyTour(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	tourID, err := pathUUID(r, "tourID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tour, err := s.tours.GetForDriver(r.Context(), identity.UserID, tourID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}
