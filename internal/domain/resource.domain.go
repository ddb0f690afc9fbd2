package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type FacilityType string

const (
	FacilityTypeNumber FacilityType = "number"
	FacilityTypeRadio  FacilityType = "radio"
)

// ParseFacilityType accepts "number" or "radio" (case-insensitive). Anything else,
// including the empty string, falls back to FacilityTypeNumber.
func ParseFacilityType(s string) FacilityType {
	switch FacilityType(strings.ToLower(strings.TrimSpace(s))) {
	case FacilityTypeRadio:
		return FacilityTypeRadio
	default:
		return FacilityTypeNumber
	}
}

type Facility struct {
	ID        string       `json:"_id"`
	Name      string       `json:"name"`
	Type      FacilityType `json:"type"`
	IconImage string       `json:"iconImage"`
}

type FacilityInput struct {
	Name      string       `json:"name"`
	Type      FacilityType `json:"type"`
	IconImage string       `json:"iconImage"`
}

// FacilityEdit is the body of an edit; the icon is not editable in place.
type FacilityEdit struct {
	Name string       `json:"name"`
	Type FacilityType `json:"type"`
}

type Category struct {
	ID         string       `json:"_id"`
	Name       string       `json:"name"`
	IconImage  string       `json:"iconImage"`
	Facilities FacilityRefs `json:"facilities"`
}

// HasFacility reports whether the facility id is attached to the category.
func (c Category) HasFacility(id string) bool {
	for _, f := range c.Facilities {
		if f == id {
			return true
		}
	}
	return false
}

type CategoryInput struct {
	Name       string   `json:"name"`
	IconImage  string   `json:"iconImage"`
	Facilities []string `json:"facilities"`
}

type CategoryEdit struct {
	Name       string   `json:"name"`
	Facilities []string `json:"facilities"`
}

// FacilityRefs decodes a list of facility references that the backend sends either
// as bare ids or as populated facility objects.
type FacilityRefs []string

func (f *FacilityRefs) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = FacilityRefs{}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("facilities: %w", err)
	}
	out := make(FacilityRefs, 0, len(raw))
	for _, item := range raw {
		id, err := decodeRef(item)
		if err != nil {
			return fmt.Errorf("facilities: %w", err)
		}
		if id != "" {
			out = append(out, id)
		}
	}
	*f = out
	return nil
}

// CategoryRef is the category embedded in a property. Unpopulated references carry
// only the id.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (c *CategoryRef) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*c = CategoryRef{ID: id}
		return nil
	}
	type plain CategoryRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*c = CategoryRef(p)
	return nil
}

type Property struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Images      []string    `json:"images"`
	Category    CategoryRef `json:"category"`
	MonthlyRent float64     `json:"monthlyRent"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Address     string      `json:"address"`
}

// Cover returns the first image or "" when the property has none.
func (p Property) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type SliderEntry struct {
	ID       string   `json:"_id"`
	Property Property `json:"property"`
	IsActive bool     `json:"isActive"`
}

func (s *SliderEntry) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       string          `json:"_id"`
		Property json.RawMessage `json:"property"`
		IsActive bool            `json:"isActive"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.ID, s.IsActive = raw.ID, raw.IsActive
	s.Property = Property{}
	if len(raw.Property) == 0 || bytes.Equal(raw.Property, []byte("null")) {
		return nil
	}
	var id string
	if err := json.Unmarshal(raw.Property, &id); err == nil {
		s.Property.ID = id
		return nil
	}
	if err := json.Unmarshal(raw.Property, &s.Property); err != nil {
		return fmt.Errorf("slider property: %w", err)
	}
	return nil
}

type SliderInput struct {
	Property string `json:"property"`
}

type SliderActiveUpdate struct {
	IsActive bool `json:"isActive"`
}

func decodeRef(b json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		return id, nil
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return "", err
	}
	return obj.ID, nil
}
