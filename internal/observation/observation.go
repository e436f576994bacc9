package observation

import (
	"fmt"
	"time"

	"obsprocess/internal/provider"
)

// Instance is one of the two physical copies of the processed data.
type Instance byte

const (
	Instance0 Instance = 0
	Instance1 Instance = 1
)

func (i Instance) Valid() bool { return i == Instance0 || i == Instance1 }

// Other returns the slot that is not i.
func (i Instance) Other() Instance { return 1 - i }

func (i Instance) String() string { return fmt.Sprintf("%d", byte(i)) }

// Observation is a verbatim record normalized into the common schema.
type Observation struct {
	OccurrenceID          string
	Provider              provider.DataProvider
	VerbatimID            int64
	TaxonID               int
	ScientificName        string
	VernacularName        string
	StartDate             *time.Time
	EndDate               *time.Time
	Latitude              *float64
	Longitude             *float64
	CoordinateUncertainty *int
	Quantity              *int
	RecordedBy            string
	Locality              string
	ActivityID            *int
	GenderID              *int
	LifeStageID           *int
	SubstrateID           *int
	ValidationStatusID    *int
	BiotopeID             *int
	UnitID                *int
	InstitutionID         *int
	CountyID              string
	MunicipalityID        string
	ParishID              string
	ProvinceID            string
	Issues                []string
	Modified              time.Time
}

// HasCoordinates reports whether the observation can be placed geographically.
func (o *Observation) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// AddIssue records a data quality problem found while normalizing.
func (o *Observation) AddIssue(issue string) {
	o.Issues = append(o.Issues, issue)
}
