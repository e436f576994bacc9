package fieldmapping

// FieldID names a vocabulary field that raw provider values are mapped into.
type FieldID int

const (
	Activity FieldID = iota + 1
	Gender
	County
	Municipality
	Parish
	Province
	LifeStage
	Substrate
	ValidationStatus
	Biotope
	Institution
	Unit
	AreaType
	OrganismQuantityUnit
)

var fieldNames = map[FieldID]string{
	Activity:             "Activity",
	Gender:               "Gender",
	County:               "County",
	Municipality:         "Municipality",
	Parish:               "Parish",
	Province:             "Province",
	LifeStage:            "LifeStage",
	Substrate:            "Substrate",
	ValidationStatus:     "ValidationStatus",
	Biotope:              "Biotope",
	Institution:          "Institution",
	Unit:                 "Unit",
	AreaType:             "AreaType",
	OrganismQuantityUnit: "OrganismQuantityUnit",
}

// KnownFields lists every field the resolver understands, in id order.
func KnownFields() []FieldID {
	out := make([]FieldID, 0, len(fieldNames))
	for f := Activity; f <= OrganismQuantityUnit; f++ {
		out = append(out, f)
	}
	return out
}

func (f FieldID) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "Field(?)"
}

// ExternalSystemID identifies the vocabulary a provider's raw values come from.
type ExternalSystemID int

const (
	ExternalArtportalen ExternalSystemID = 1
	ExternalDarwinCore  ExternalSystemID = 2
)

// FieldMapping holds, for one field, how each external system's raw values
// translate into internal vocabulary ids.
type FieldMapping struct {
	ID              FieldID                 `json:"id"`
	Name            string                  `json:"name"`
	ExternalSystems []ExternalSystemMapping `json:"externalSystemsMapping"`
}

type ExternalSystemMapping struct {
	ID       ExternalSystemID  `json:"id"`
	Name     string            `json:"name"`
	Mappings []ExternalMapping `json:"mappings"`
}

// ExternalMapping is one keyed set of raw values, e.g. the values keyed by "Id".
type ExternalMapping struct {
	Key    string         `json:"key"`
	Values []MappingValue `json:"values"`
}

type MappingValue struct {
	Value      string `json:"value"`
	InternalID int    `json:"sosId"`
}

// Mappings is the resolved lookup for one external system: field -> raw value -> id.
type Mappings map[FieldID]map[string]int
