// Package maps wraps the Google Maps Directions API behind the small
// distance interface the tour service needs. Dispatch uses the estimate to
// pre-fill a tour's billable distance; the value stays editable afterwards.
package maps

import (
	"context"
	"fmt"
	"math"
	"strings"

	"googlemaps.github.io/maps"
)

// Error codes reported by DistanceService. Callers always get a concrete
// code, never a silently defaulted distance.
const (
	CodeAPIKeyMissing      = "API_KEY_MISSING"
	CodeInvalidOrigin      = "INVALID_ORIGIN"
	CodeInvalidDestination = "INVALID_DESTINATION"
	CodeRequestDenied      = "REQUEST_DENIED"
	CodeOverQueryLimit     = "OVER_QUERY_LIMIT"
	CodeNotFound           = "NOT_FOUND"
	CodeZeroResults        = "ZERO_RESULTS"
	CodeUnknown            = "UNKNOWN"
)

// Error is a classified Directions API failure.
type Error struct {
	Code string
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// Estimate is a resolved route: whole kilometres and whole minutes.
type Estimate struct {
	DistanceKm      int `json:"distance_km"`
	DurationMinutes int `json:"duration_minutes"`
}

// DistanceService resolves driving distances between free-text addresses.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a DistanceService with the given API key.
func NewDistanceService(apiKey string) (*DistanceService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &Error{Code: CodeAPIKeyMissing}
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps.NewDistanceService: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// Estimate returns the driving distance and duration from origin to
// destination, summed over all legs of the first returned route and rounded
// to whole kilometres and minutes.
func (s *DistanceService) Estimate(ctx context.Context, origin, destination string) (Estimate, error) {
	if strings.TrimSpace(origin) == "" {
		return Estimate{}, &Error{Code: CodeInvalidOrigin}
	}
	if strings.TrimSpace(destination) == "" {
		return Estimate{}, &Error{Code: CodeInvalidDestination}
	}

	req := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    "de",
		Region:      "DE", // bias geocoding to Germany
	}

	routes, _, err := s.client.Directions(ctx, req)
	if err != nil {
		return Estimate{}, classify(err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Estimate{}, &Error{Code: CodeZeroResults}
	}

	var meters int
	var seconds float64
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		seconds += leg.Duration.Seconds()
	}
	return Estimate{
		DistanceKm:      int(math.Round(float64(meters) / 1000)),
		DurationMinutes: int(math.Round(seconds / 60)),
	}, nil
}

// DriveDistanceKm adapts Estimate to the distance interface the tour
// service consumes.
func (s *DistanceService) DriveDistanceKm(ctx context.Context, origin, destination string) (float64, error) {
	est, err := s.Estimate(ctx, origin, destination)
	if err != nil {
		return 0, fmt.Errorf("maps.DistanceService.DriveDistanceKm: %w", err)
	}
	return float64(est.DistanceKm), nil
}

// classify maps a Directions API error onto one of the exported codes. The
// maps client surfaces the upstream status as text, so matching on the
// status token is the only classification available.
func classify(err error) *Error {
	msg := err.Error()
	for _, code := range []string{CodeRequestDenied, CodeOverQueryLimit, CodeNotFound, CodeZeroResults} {
		if strings.Contains(msg, code) {
			return &Error{Code: code, err: err}
		}
	}
	return &Error{Code: CodeUnknown, err: err}
}
