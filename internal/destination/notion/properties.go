package notion

import (
	"encoding/json"
	"time"
)

type PropertyType string

const (
	PropertyTitle  PropertyType = "title"
	PropertySelect PropertyType = "select"
	PropertyDate   PropertyType = "date"
)

// Property is a page property value.
type Property interface {
	PropertyType() PropertyType
	json.Marshaler
}

type TitleProperty struct {
	Text string
}

type SelectProperty struct {
	Name string
}

type DateProperty struct {
	Start time.Time
}

func (TitleProperty) PropertyType() PropertyType  { return PropertyTitle }
func (SelectProperty) PropertyType() PropertyType { return PropertySelect }
func (DateProperty) PropertyType() PropertyType   { return PropertyDate }

func (p TitleProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"title": Text(p.Text)})
}

func (p SelectProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"select": map[string]string{"name": p.Name}})
}

func (p DateProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"date": map[string]string{"start": p.Start.Format("2006-01-02")}})
}

// Properties maps property names to values.
type Properties map[string]Property

// Schema describes a database's properties by name.
type Schema struct {
	Properties map[string]PropertyType
}

// TitleProperty returns the name of the title property, "title" when unknown.
func (s *Schema) TitleProperty() string {
	if s != nil {
		for name, typ := range s.Properties {
			if typ == PropertyTitle {
				return name
			}
		}
	}
	return "title"
}

func (s *Schema) Has(name string, typ PropertyType) bool {
	if s == nil {
		return false
	}
	got, ok := s.Properties[name]
	return ok && got == typ
}

// PageAttributes are the values a synced page carries besides its content.
type PageAttributes struct {
	Title    string
	Type     string
	Status   string
	Category string
	Date     time.Time
}

// BuildProperties sets only the properties the schema declares with a
// matching type. A nil schema yields a title-only property set.
func BuildProperties(schema *Schema, attrs PageAttributes) Properties {
	props := Properties{schema.TitleProperty(): TitleProperty{Text: attrs.Title}}
	if schema == nil {
		return props
	}

	selects := []struct{ name, value string }{
		{"type", attrs.Type},
		{"status", attrs.Status},
		{"category", attrs.Category},
	}
	for _, sel := range selects {
		if sel.value != "" && schema.Has(sel.name, PropertySelect) {
			props[sel.name] = SelectProperty{Name: sel.value}
		}
	}
	if !attrs.Date.IsZero() && schema.Has("date", PropertyDate) {
		props["date"] = DateProperty{Start: attrs.Date}
	}
	return props
}
