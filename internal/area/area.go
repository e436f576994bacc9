package area

import (
	"fmt"
	"math"
)

// Type is an administrative area layer.
type Type string

const (
	TypeCounty       Type = "County"
	TypeMunicipality Type = "Municipality"
	TypeParish       Type = "Parish"
	TypeProvince     Type = "Province"
)

// Set holds the feature ids of the areas a point falls in.
type Set struct {
	CountyID       string `json:"countyId"`
	MunicipalityID string `json:"municipalityId"`
	ParishID       string `json:"parishId"`
	ProvinceID     string `json:"provinceId"`
}

func (s *Set) set(t Type, featureID string) {
	switch t {
	case TypeCounty:
		s.CountyID = featureID
	case TypeMunicipality:
		s.MunicipalityID = featureID
	case TypeParish:
		s.ParishID = featureID
	case TypeProvince:
		s.ProvinceID = featureID
	}
}

// cellPrecision is the number of decimals coordinates are rounded to before
// they are used as cache keys, roughly ten metres.
const cellPrecision = 4

func cellKey(lat, lon float64) string {
	scale := math.Pow10(cellPrecision)
	return fmt.Sprintf("%.*f:%.*f", cellPrecision, math.Round(lat*scale)/scale, cellPrecision, math.Round(lon*scale)/scale)
}
