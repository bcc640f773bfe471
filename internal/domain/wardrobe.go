package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wardrobe seasons follow the catalog vocabulary used by the frontend.
const (
	SeasonSummer    = "verao"
	SeasonWinter    = "inverno"
	SeasonMidSeason = "meia-estacao"
	SeasonAll       = "todas"
)

func ValidSeason(s string) bool {
	switch s {
	case SeasonSummer, SeasonWinter, SeasonMidSeason, SeasonAll:
		return true
	}
	return false
}

// StringList stores a slice of tags as a JSON text column so the same model
// works on postgres and the sqlite test driver.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported tags column type %T", value)
	}
}

type WardrobeItem struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"-"`
	Category  string     `gorm:"size:80;not null" json:"category"`
	Color     string     `gorm:"size:50;not null" json:"color"`
	Material  string     `gorm:"size:80;not null" json:"material"`
	Season    *string    `gorm:"size:20" json:"season"`
	Tags      StringList `gorm:"type:text" json:"tags"`
	ImageURL  *string    `gorm:"size:2048" json:"imageUrl"`
	Notes     *string    `gorm:"size:500" json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (w *WardrobeItem) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Tags == nil {
		w.Tags = StringList{}
	}
	return nil
}

// StyleProfile holds the style-consultant answers gathered by the chat flow.
// One row per user, upserted as the profile evolves.
type StyleProfile struct {
	ID              string    `gorm:"primaryKey;size:36" json:"-"`
	UserID          string    `gorm:"size:36;uniqueIndex;not null" json:"-"`
	Perception      *string   `gorm:"size:500" json:"perception"`
	Styles          *string   `gorm:"size:500" json:"styles"`
	ColorsPreferred *string   `gorm:"size:500" json:"colorsPreferred"`
	ColorsAvoid     *string   `gorm:"size:500" json:"colorsAvoid"`
	Occasions       *string   `gorm:"size:500" json:"occasions"`
	Formality       *string   `gorm:"size:20" json:"formality"`
	Silhouettes     *string   `gorm:"size:500" json:"silhouettes"`
	Materials       *string   `gorm:"size:500" json:"materials"`
	AvoidPieces     *string   `gorm:"size:500" json:"avoidPieces"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (p *StyleProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

const (
	FormalityLow    = "baixo"
	FormalityMedium = "medio"
	FormalityHigh   = "alto"
)

func ValidFormality(s string) bool {
	switch s {
	case FormalityLow, FormalityMedium, FormalityHigh:
		return true
	}
	return false
}
