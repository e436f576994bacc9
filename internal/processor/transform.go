package processor

import (
	"strconv"
	"strings"
	"time"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
	"obsprocess/internal/verbatim"
)

type transformFunc[T any] func(rec verbatim.Record[T], v vocab) *observation.Observation

func transformArtportalen(rec verbatim.Record[verbatim.ArtportalenSighting], v vocab) *observation.Observation {
	s := rec.Data
	o := &observation.Observation{
		OccurrenceID:          "urn:lsid:artportalen.se:Sighting:" + strconv.FormatInt(s.SightingID, 10),
		Provider:              provider.Artportalen,
		VerbatimID:            rec.ID,
		StartDate:             s.StartDate,
		EndDate:               s.EndDate,
		Latitude:              s.Latitude,
		Longitude:             s.Longitude,
		CoordinateUncertainty: s.CoordinateUncertainty,
		Quantity:              s.Quantity,
		RecordedBy:            s.ReportedBy,
		Locality:              s.SiteName,
		Modified:              s.EditDate,
	}
	v.applyTaxon(o, s.TaxonID)
	o.ActivityID = v.mapID(o, fieldmapping.Activity, s.ActivityID)
	o.GenderID = v.mapID(o, fieldmapping.Gender, s.GenderID)
	o.LifeStageID = v.mapID(o, fieldmapping.LifeStage, s.StageID)
	o.SubstrateID = v.mapID(o, fieldmapping.Substrate, s.SubstrateID)
	o.ValidationStatusID = v.mapID(o, fieldmapping.ValidationStatus, s.ValidationStatusID)
	o.BiotopeID = v.mapID(o, fieldmapping.Biotope, s.BiotopeID)
	o.UnitID = v.mapID(o, fieldmapping.Unit, s.UnitID)
	o.InstitutionID = v.mapID(o, fieldmapping.Institution, s.OwnerOrganizationID)
	o.CountyID = v.mapArea(o, fieldmapping.County, s.CountyID)
	o.MunicipalityID = v.mapArea(o, fieldmapping.Municipality, s.MunicipalityID)
	o.ParishID = v.mapArea(o, fieldmapping.Parish, s.ParishID)
	o.ProvinceID = v.mapArea(o, fieldmapping.Province, s.ProvinceID)
	return o
}

func transformClam(rec verbatim.Record[verbatim.ClamObservation], v vocab) *observation.Observation {
	c := rec.Data
	o := &observation.Observation{
		OccurrenceID:          occurrenceID(provider.ClamPortal, c.ObservationKey, rec.ID),
		Provider:              provider.ClamPortal,
		VerbatimID:            rec.ID,
		StartDate:             c.ObservationDate,
		EndDate:               c.ObservationDate,
		Latitude:              c.DecimalLatitude,
		Longitude:             c.DecimalLongitude,
		CoordinateUncertainty: c.Uncertainty,
		Quantity:              c.IndividualCount,
		RecordedBy:            c.RecordedBy,
		Locality:              c.Locality,
		Modified:              timeOr(c.Modified, c.ObservationDate),
	}
	v.applyTaxon(o, c.DyntaxaTaxonID)
	o.LifeStageID = v.mapValue(o, fieldmapping.LifeStage, c.LifeStage)
	return o
}

func transformKul(rec verbatim.Record[verbatim.KulObservation], v vocab) *observation.Observation {
	k := rec.Data
	start, end := k.Start, k.End
	o := &observation.Observation{
		OccurrenceID: occurrenceID(provider.KUL, k.ObservationID, rec.ID),
		Provider:     provider.KUL,
		VerbatimID:   rec.ID,
		Quantity:     k.Quantity,
		RecordedBy:   k.ReportedBy,
		Locality:     k.Locality,
		Modified:     end,
	}
	if k.DecimalLatitude != nil && k.DecimalLongitude != nil {
		o.Latitude, o.Longitude = k.DecimalLatitude, k.DecimalLongitude
	}
	if !start.IsZero() {
		o.StartDate = &start
	}
	if !end.IsZero() {
		o.EndDate = &end
	}
	v.applyTaxon(o, k.DyntaxaTaxonID)
	return o
}

// transformSurvey builds the transform shared by the darwin-core shaped providers.
func transformSurvey(p provider.DataProvider) transformFunc[verbatim.SurveyObservation] {
	return func(rec verbatim.Record[verbatim.SurveyObservation], v vocab) *observation.Observation {
		s := rec.Data
		key := s.OccurrenceID
		if key == "" {
			key = s.CatalogNumber
		}
		o := &observation.Observation{
			OccurrenceID:          occurrenceID(p, key, rec.ID),
			Provider:              p,
			VerbatimID:            rec.ID,
			StartDate:             s.EventStart,
			EndDate:               s.EventEnd,
			Latitude:              s.DecimalLatitude,
			Longitude:             s.DecimalLongitude,
			CoordinateUncertainty: s.Uncertainty,
			Quantity:              s.IndividualCount,
			RecordedBy:            s.RecordedBy,
			Locality:              s.Locality,
			Modified:              timeOr(s.Modified, s.EventEnd),
		}
		v.applyTaxon(o, s.DyntaxaTaxonID)
		o.GenderID = v.mapValue(o, fieldmapping.Gender, s.Sex)
		o.LifeStageID = v.mapValue(o, fieldmapping.LifeStage, s.LifeStage)
		o.InstitutionID = v.mapValue(o, fieldmapping.Institution, s.InstitutionCode)
		return o
	}
}

// occurrenceID keeps a provider supplied key when there is one and otherwise
// derives a stable id from the verbatim id.
func occurrenceID(p provider.DataProvider, key string, verbatimID int64) string {
	if key != "" {
		if strings.HasPrefix(key, "urn:") {
			return key
		}
		return "urn:lsid:" + p.String() + ":" + key
	}
	return "urn:lsid:" + p.String() + ":" + strconv.FormatInt(verbatimID, 10)
}

func timeOr(ts ...*time.Time) time.Time {
	for _, t := range ts {
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}
