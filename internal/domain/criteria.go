package domain

import (
	"fmt"
	"strings"
)

// Criteria are the constraints collected during one conversation. Nil fields
// impose no constraint. Amenities are collected but not used for filtering.
type Criteria struct {
	Budget    *float64 `json:"budget,omitempty"`
	Rooms     *int     `json:"rooms,omitempty"`
	City      *string  `json:"city,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// Clone copies c so the result shares no memory with it.
func (c Criteria) Clone() Criteria {
	var out Criteria
	if c.Budget != nil {
		b := *c.Budget
		out.Budget = &b
	}
	if c.Rooms != nil {
		r := *c.Rooms
		out.Rooms = &r
	}
	if c.City != nil {
		s := *c.City
		out.City = &s
	}
	if c.Amenities != nil {
		out.Amenities = append([]string(nil), c.Amenities...)
	}
	return out
}

func (c Criteria) IsEmpty() bool {
	return c.Budget == nil && c.Rooms == nil && c.City == nil && len(c.Amenities) == 0
}

// Matches reports whether p satisfies every present criterion. It fails when a
// field needed for a comparison cannot be read as a number.
func (c Criteria) Matches(p Property) (bool, error) {
	if c.Budget != nil {
		price, err := p.Price.Float()
		if err != nil {
			return false, fmt.Errorf("property %s price: %w", p.ID, err)
		}
		if price > *c.Budget {
			return false, nil
		}
	}
	if c.Rooms != nil {
		rooms, err := p.Rooms.Int()
		if err != nil {
			return false, fmt.Errorf("property %s rooms: %w", p.ID, err)
		}
		if rooms != *c.Rooms {
			return false, nil
		}
	}
	if c.City != nil && !strings.EqualFold(strings.TrimSpace(p.City), strings.TrimSpace(*c.City)) {
		return false, nil
	}
	return true, nil
}
