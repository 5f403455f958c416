package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// PropertyBag keeps whatever attribute set the upstream GIS source
// returned for a feature. Field sets vary by source, so this is an open
// string-keyed map persisted as jsonb.
type PropertyBag map[string]any

func (p PropertyBag) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PropertyBag) Scan(src any) error {
	if src == nil {
		*p = PropertyBag{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for PropertyBag")
	}
	return json.Unmarshal(data, p)
}

// Landmark is one historic place. The dedupe key is the composite of
// name, address fields and coordinates rounded to six decimals; repeat
// ingestion of the same box merges rows instead of duplicating them.
type Landmark struct {
	DTO
	Resname    string      `gorm:"uniqueIndex:idx_landmarks_dedupe;not null" json:"resname"`
	Address    string      `gorm:"uniqueIndex:idx_landmarks_dedupe" json:"address"`
	City       string      `gorm:"uniqueIndex:idx_landmarks_dedupe" json:"city"`
	State      string      `gorm:"uniqueIndex:idx_landmarks_dedupe" json:"state"`
	Longitude  float64     `gorm:"uniqueIndex:idx_landmarks_dedupe" json:"longitude"`
	Latitude   float64     `gorm:"uniqueIndex:idx_landmarks_dedupe" json:"latitude"`
	Source     string      `gorm:"default:nps_nrhp" json:"source"`
	SourceID   *string     `json:"source_id"`
	Properties PropertyBag `gorm:"type:jsonb" json:"properties"`
}

func (Landmark) TableName() string { return "nrhp_landmarks" }

type LandmarksQuery struct {
	West  *float64 `query:"west" validate:"required"`
	South *float64 `query:"south" validate:"required"`
	East  *float64 `query:"east" validate:"required"`
	North *float64 `query:"north" validate:"required"`
	Limit int      `query:"limit" validate:"omitempty,gt=0"`
}

type LandmarksByZipQuery struct {
	Zip      string  `query:"zip" validate:"required,len=5,numeric"`
	RadiusMi float64 `query:"radiusMi" validate:"omitempty,gt=0"`
	Limit    int     `query:"limit" validate:"omitempty,gt=0"`
}
