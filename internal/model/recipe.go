package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPreparationTimeUnit = "Minutes"
	DefaultServingsUnit        = "Servings"
)

type Recipe struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time `gorm:"index" json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
	Title                  string    `gorm:"size:65;not null" json:"title"`
	Description            string    `gorm:"size:165;not null" json:"description"`
	Slug                   string    `gorm:"size:255;uniqueIndex" json:"slug"`
	PreparationTime        int       `json:"preparation_time"`
	PreparationTimeUnit    string    `gorm:"size:65;not null;default:Minutes" json:"preparation_time_unit"`
	Servings               int       `json:"servings"`
	ServingsUnit           string    `gorm:"size:65;not null;default:Servings" json:"servings_unit"`
	PreparationSteps       string    `gorm:"type:text" json:"preparation_steps"`
	PreparationStepsIsHTML bool      `gorm:"not null;default:false" json:"preparation_steps_is_html"`
	IsPublished            bool      `gorm:"not null;default:false;index" json:"is_published"`
	CoverKey               string    `gorm:"size:255" json:"cover_key"`
	CategoryID             *uint     `gorm:"index" json:"category_id"`
	Category               *Category `gorm:"constraint:OnDelete:SET NULL;" json:"category,omitempty"`
}

// BeforeSave fills the slug and the unit labels when left blank
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	if r.Slug == "" {
		r.Slug = Slugify(r.Title)
		if r.Slug == "" {
			r.Slug = "recipe"
		}
		// titles are not unique; the nanosecond suffix keeps the index happy
		r.Slug = fmt.Sprintf("%s-%d", r.Slug, time.Now().UnixNano())
	}
	if r.PreparationTimeUnit == "" {
		r.PreparationTimeUnit = DefaultPreparationTimeUnit
	}
	if r.ServingsUnit == "" {
		r.ServingsUnit = DefaultServingsUnit
	}
	return nil
}

// PreparationTimeLabel renders the preparation time as "5 Minutes"
func (r Recipe) PreparationTimeLabel() string {
	unit := r.PreparationTimeUnit
	if unit == "" {
		unit = DefaultPreparationTimeUnit
	}
	return fmt.Sprintf("%d %s", r.PreparationTime, unit)
}

// ServingsLabel renders the servings as "4 Servings"
func (r Recipe) ServingsLabel() string {
	unit := r.ServingsUnit
	if unit == "" {
		unit = DefaultServingsUnit
	}
	return fmt.Sprintf("%d %s", r.Servings, unit)
}

// CategoryName is empty for uncategorized recipes
func (r Recipe) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return r.Category.Name
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
