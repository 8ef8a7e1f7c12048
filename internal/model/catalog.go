package model

import (
	"errors"
	"fmt"
)

// DefaultDurationMinutes is used whenever a service or stored record carries no duration.
const DefaultDurationMinutes = 60

// ErrUnknownService is returned for codes outside the catalog.
var ErrUnknownService = errors.New("unknown service")

// ServiceCode identifies an entry of the fixed service catalog.
type ServiceCode string

const (
	ServiceClassic   ServiceCode = "classic"
	ServiceApparatus ServiceCode = "apparatus"
	ServiceGel       ServiceCode = "gel"
	ServiceDesign    ServiceCode = "design"
)

// Service is a catalog entry. Price is in whole currency units.
type Service struct {
	Code            ServiceCode `json:"code" yaml:"code"`
	Name            string      `json:"name" yaml:"name"`
	DurationMinutes int         `json:"duration_minutes" yaml:"duration_minutes"`
	Price           int         `json:"price" yaml:"price"`
}

// Duration returns the service length, defaulting to DefaultDurationMinutes.
func (s Service) Duration() int {
	if s.DurationMinutes <= 0 {
		return DefaultDurationMinutes
	}
	return s.DurationMinutes
}

var catalog = []Service{
	{Code: ServiceClassic, Name: "Classic manicure", DurationMinutes: 60, Price: 1500},
	{Code: ServiceApparatus, Name: "Apparatus manicure", DurationMinutes: 90, Price: 2000},
	{Code: ServiceGel, Name: "Gel polish", DurationMinutes: 120, Price: 2500},
	{Code: ServiceDesign, Name: "Nail design", DurationMinutes: 30, Price: 800},
}

// Services returns the catalog in display order.
func Services() []Service {
	out := make([]Service, len(catalog))
	copy(out, catalog)
	return out
}

// LookupService finds a catalog entry by code.
func LookupService(code string) (Service, error) {
	for _, s := range catalog {
		if string(s.Code) == code {
			return s, nil
		}
	}
	return Service{}, fmt.Errorf("%w: %q", ErrUnknownService, code)
}

// ServiceName returns the display name for code, or a generic label for unknown codes.
func ServiceName(code ServiceCode) string {
	if s, err := LookupService(string(code)); err == nil {
		return s.Name
	}
	return "Service"
}
