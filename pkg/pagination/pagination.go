package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultTake is the standard page size when take is not provided.
	DefaultTake = 50
	// MaxTake caps how many rows any listing can request.
	MaxTake = 500
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Skip int
	Take int
}

// Normalize clamps skip/take into their allowed ranges.
func (p Params) Normalize() Params {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Take <= 0 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
	return p
}

// FromQuery reads skip/take query parameters, ignoring malformed values.
func FromQuery(query url.Values) Params {
	params := Params{}
	if raw := query.Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Skip = v
		}
	}
	if raw := query.Get("take"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Take = v
		}
	}
	return params.Normalize()
}
