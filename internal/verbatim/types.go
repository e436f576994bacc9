package verbatim

import (
	"time"
)

// ArtportalenSighting is a sighting as harvested from Artportalen. Vocabulary
// fields hold Artportalen ids that are resolved through field mappings.
type ArtportalenSighting struct {
	SightingID            int64      `json:"sightingId"`
	TaxonID               int        `json:"taxonId"`
	StartDate             *time.Time `json:"startDate"`
	EndDate               *time.Time `json:"endDate"`
	Latitude              *float64   `json:"latitude"`
	Longitude             *float64   `json:"longitude"`
	CoordinateUncertainty *int       `json:"accuracy"`
	Quantity              *int       `json:"quantity"`
	ReportedBy            string     `json:"reportedBy"`
	SiteName              string     `json:"siteName"`
	ActivityID            *int       `json:"activityId"`
	GenderID              *int       `json:"genderId"`
	StageID               *int       `json:"stageId"`
	SubstrateID           *int       `json:"substrateId"`
	ValidationStatusID    *int       `json:"validationStatusId"`
	BiotopeID             *int       `json:"biotopeId"`
	UnitID                *int       `json:"unitId"`
	OwnerOrganizationID   *int       `json:"ownerOrganizationId"`
	CountyID              *int       `json:"countyId"`
	MunicipalityID        *int       `json:"municipalityId"`
	ParishID              *int       `json:"parishId"`
	ProvinceID            *int       `json:"provinceId"`
	EditDate              time.Time  `json:"editDate"`
}

// ClamObservation comes from the freshwater pearl mussel portal.
type ClamObservation struct {
	ObservationKey   string     `json:"observationKey"`
	DyntaxaTaxonID   int        `json:"dyntaxaTaxonId"`
	ObservationDate  *time.Time `json:"observationDate"`
	DecimalLatitude  *float64   `json:"decimalLatitude"`
	DecimalLongitude *float64   `json:"decimalLongitude"`
	Uncertainty      *int       `json:"coordinateUncertaintyInMeters"`
	IndividualCount  *int       `json:"individualCount"`
	RecordedBy       string     `json:"recordedBy"`
	Locality         string     `json:"locality"`
	LifeStage        string     `json:"lifeStage"`
	Modified         *time.Time `json:"modified"`
}

// KulObservation comes from the coastal fish survey database.
type KulObservation struct {
	ObservationID    string    `json:"observationId"`
	DyntaxaTaxonID   int       `json:"dyntaxaTaxonId"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	DecimalLatitude  *float64  `json:"decimalLatitude"`
	DecimalLongitude *float64  `json:"decimalLongitude"`
	Quantity         *int      `json:"quantity"`
	ReportedBy       string    `json:"reportedBy"`
	Locality         string    `json:"locality"`
}

// SurveyObservation is the darwin-core shaped record delivered by the
// monitoring programmes (MVM, NORS, SERS, SHARK) and by Virtual Herbarium.
type SurveyObservation struct {
	OccurrenceID     string     `json:"occurrenceId"`
	CatalogNumber    string     `json:"catalogNumber"`
	DyntaxaTaxonID   int        `json:"dyntaxaTaxonId"`
	EventStart       *time.Time `json:"eventStart"`
	EventEnd         *time.Time `json:"eventEnd"`
	DecimalLatitude  *float64   `json:"decimalLatitude"`
	DecimalLongitude *float64   `json:"decimalLongitude"`
	Uncertainty      *int       `json:"coordinateUncertaintyInMeters"`
	IndividualCount  *int       `json:"individualCount"`
	RecordedBy       string     `json:"recordedBy"`
	Locality         string     `json:"locality"`
	Sex              string     `json:"sex"`
	LifeStage        string     `json:"lifeStage"`
	InstitutionCode  string     `json:"institutionCode"`
	Modified         *time.Time `json:"modified"`
}
