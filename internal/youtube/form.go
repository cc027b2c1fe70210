package youtube

import (
	"sort"

	"github.com/vidfriends/mediayoutube/internal/models"
)

// SourceFieldTypes are the field types able to hold a URL or embed code.
var SourceFieldTypes = []string{models.FieldTypeString, models.FieldTypeStringLong, models.FieldTypeLink}

// FormOption is one selectable value.
type FormOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Form is the media type settings form: a single select choosing the source field.
type Form struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Default     string       `json:"default,omitempty"`
	Options     []FormOption `json:"options"`
}

// SettingsForm builds the form for a bundle with the given fields. current is
// the configured source field, used as the default when still eligible.
func SettingsForm(fields []models.FieldDefinition, current string) Form {
	form := Form{
		Name:        "source_field",
		Type:        "select",
		Title:       "Field with source information",
		Description: "Field on media entity that stores YouTube embed code or URL.",
		Options:     []FormOption{},
	}

	sorted := append([]models.FieldDefinition(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight < sorted[j].Weight
		}
		return sorted[i].Name < sorted[j].Name
	})

	for _, f := range sorted {
		if !isSourceFieldType(f.Type) {
			continue
		}
		label := f.Label
		if label == "" {
			label = f.Name
		}
		form.Options = append(form.Options, FormOption{Value: f.Name, Label: label})
	}

	if form.Allows(current) {
		form.Default = current
	}
	return form
}

// Allows reports whether value is one of the form options.
func (f Form) Allows(value string) bool {
	if value == "" {
		return false
	}
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func isSourceFieldType(t string) bool {
	for _, allowed := range SourceFieldTypes {
		if t == allowed {
			return true
		}
	}
	return false
}
