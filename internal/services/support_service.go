package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/terraincognita07/femcare/internal/models"
)

const earthRadiusKm = 6371.0

var (
	ErrInvalidSupportRequest    = errors.New("invalid support request")
	ErrInvalidSupportTransition = errors.New("invalid support status transition")
	ErrSupportRequestNotOwned   = errors.New("support request belongs to another user")
)

type SupportRepository interface {
	CreateSupportRequest(ctx context.Context, request *models.SupportRequest) error
	FindSupportRequest(ctx context.Context, requestID string) (models.SupportRequest, error)
	ListSupportRequests(ctx context.Context, status string, supportType string) ([]models.SupportRequest, error)
	UpdateSupportStatus(ctx context.Context, requestID string, status string) error
}

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

type SupportRequestInput struct {
	UserID      string
	Title       string
	Description string
	Location    GeoPoint
	SupportType string
	Anonymous   bool
}

// SupportMatch is a request as another user sees it while looking for someone to help.
type SupportMatch struct {
	Request    models.SupportRequest `json:"request"`
	DistanceKm float64               `json:"distanceKm"`
}

type SupportService struct {
	requests SupportRepository
}

func NewSupportService(requests SupportRepository) *SupportService {
	return &SupportService{requests: requests}
}

func (service *SupportService) Open(ctx context.Context, input SupportRequestInput) (models.SupportRequest, error) {
	title := strings.TrimSpace(input.Title)
	supportType := strings.ToLower(strings.TrimSpace(input.SupportType))
	if strings.TrimSpace(input.UserID) == "" || title == "" || supportType == "" {
		return models.SupportRequest{}, ErrInvalidSupportRequest
	}
	if math.Abs(input.Location.Latitude) > 90 || math.Abs(input.Location.Longitude) > 180 {
		return models.SupportRequest{}, ErrInvalidSupportRequest
	}

	request := models.SupportRequest{
		UserID:      input.UserID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Latitude:    input.Location.Latitude,
		Longitude:   input.Location.Longitude,
		SupportType: supportType,
		Anonymous:   input.Anonymous,
		Status:      models.SupportStatusOpen,
	}
	if err := service.requests.CreateSupportRequest(ctx, &request); err != nil {
		return models.SupportRequest{}, fmt.Errorf("create support request: %w", err)
	}
	return request, nil
}

// ListOpen returns open requests of other users, nearest first when near is set.
// radiusKm <= 0 disables the distance filter.
func (service *SupportService) ListOpen(ctx context.Context, viewerID string, supportType string, near *GeoPoint, radiusKm float64) ([]SupportMatch, error) {
	requests, err := service.requests.ListSupportRequests(ctx, models.SupportStatusOpen, strings.ToLower(strings.TrimSpace(supportType)))
	if err != nil {
		return nil, err
	}

	matches := make([]SupportMatch, 0, len(requests))
	for _, request := range requests {
		if request.UserID == viewerID {
			continue
		}
		match := SupportMatch{Request: request}
		if near != nil {
			match.DistanceKm = HaversineKm(*near, GeoPoint{Latitude: request.Latitude, Longitude: request.Longitude})
			if radiusKm > 0 && match.DistanceKm > radiusKm {
				continue
			}
		}
		if request.Anonymous {
			match.Request.UserID = ""
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm == matches[j].DistanceKm {
			return matches[i].Request.CreatedAt.After(matches[j].Request.CreatedAt)
		}
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches, nil
}

func (service *SupportService) UpdateStatus(ctx context.Context, userID string, requestID string, status string) error {
	request, err := service.requests.FindSupportRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.UserID != userID {
		return ErrSupportRequestNotOwned
	}
	if !IsValidSupportTransition(request.Status, status) {
		return ErrInvalidSupportTransition
	}
	return service.requests.UpdateSupportStatus(ctx, requestID, status)
}

func IsValidSupportTransition(from string, to string) bool {
	switch from {
	case models.SupportStatusOpen:
		return to == models.SupportStatusInProgress || to == models.SupportStatusClosed
	case models.SupportStatusInProgress:
		return to == models.SupportStatusClosed
	default:
		return false
	}
}

func HaversineKm(a GeoPoint, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
