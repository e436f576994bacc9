package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/provider"
	"obsprocess/internal/verbatim"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestTransformArtportalen(t *testing.T) {
	job := testJob()
	v := vocab{taxa: job.Taxa, mappings: job.Mappings[fieldmapping.ExternalArtportalen]}

	t.Run("maps vocabulary and areas", func(t *testing.T) {
		rec := verbatim.Record[verbatim.ArtportalenSighting]{ID: 7, Data: verbatim.ArtportalenSighting{
			SightingID:     42,
			TaxonID:        100,
			ActivityID:     intp(1),
			GenderID:       intp(2),
			StageID:        intp(3),
			CountyID:       intp(5),
			MunicipalityID: intp(7),
			ParishID:       intp(9),
			ProvinceID:     intp(11),
		}}

		o := transformArtportalen(rec, v)

		assert.Equal(t, "urn:lsid:artportalen.se:Sighting:42", o.OccurrenceID)
		assert.Equal(t, provider.Artportalen, o.Provider)
		assert.Equal(t, int64(7), o.VerbatimID)
		assert.Equal(t, "Margaritifera margaritifera", o.ScientificName)
		require.NotNil(t, o.ActivityID)
		assert.Equal(t, 10, *o.ActivityID)
		require.NotNil(t, o.GenderID)
		assert.Equal(t, 2, *o.GenderID)
		require.NotNil(t, o.LifeStageID)
		assert.Equal(t, 30, *o.LifeStageID)
		assert.Equal(t, "1", o.CountyID)
		assert.Equal(t, "180", o.MunicipalityID)
		assert.Equal(t, "900", o.ParishID)
		assert.Equal(t, "11", o.ProvinceID)
		assert.Nil(t, o.SubstrateID)
		assert.Empty(t, o.Issues)
	})

	t.Run("unknown values become issues", func(t *testing.T) {
		rec := verbatim.Record[verbatim.ArtportalenSighting]{ID: 8, Data: verbatim.ArtportalenSighting{
			SightingID: 43,
			TaxonID:    999,
			GenderID:   intp(77),
		}}

		o := transformArtportalen(rec, v)

		assert.Equal(t, 999, o.TaxonID)
		assert.Empty(t, o.ScientificName)
		assert.Nil(t, o.GenderID)
		assert.ElementsMatch(t, []string{"taxon_not_found", "unmapped_value:Gender:77"}, o.Issues)
	})
}

func TestTransformSurvey(t *testing.T) {
	job := testJob()
	v := vocab{taxa: job.Taxa, mappings: job.Mappings[fieldmapping.ExternalDarwinCore]}
	transform := transformSurvey(provider.SHARK)

	o := transform(verbatim.Record[verbatim.SurveyObservation]{ID: 3, Data: verbatim.SurveyObservation{
		OccurrenceID:    "urn:shark:abc",
		DyntaxaTaxonID:  200,
		Sex:             " Female",
		LifeStage:       "larva",
		InstitutionCode: "SMHI",
	}}, v)

	assert.Equal(t, "urn:shark:abc", o.OccurrenceID)
	assert.Equal(t, "abborre", o.VernacularName)
	require.NotNil(t, o.GenderID)
	assert.Equal(t, 2, *o.GenderID)
	assert.Nil(t, o.LifeStageID)
	assert.Nil(t, o.InstitutionID)
	assert.Equal(t, []string{"unmapped_value:LifeStage:larva"}, o.Issues)
}

func TestTransformKul(t *testing.T) {
	job := testJob()
	v := vocab{taxa: job.Taxa, mappings: job.Mappings[fieldmapping.ExternalDarwinCore]}

	t.Run("keeps coordinates", func(t *testing.T) {
		o := transformKul(verbatim.Record[verbatim.KulObservation]{ID: 4, Data: verbatim.KulObservation{
			DyntaxaTaxonID:   200,
			DecimalLatitude:  floatp(57.7),
			DecimalLongitude: floatp(11.9),
		}}, v)

		require.True(t, o.HasCoordinates())
		assert.InDelta(t, 57.7, *o.Latitude, 1e-9)
		assert.InDelta(t, 11.9, *o.Longitude, 1e-9)
	})

	t.Run("missing coordinates stay empty", func(t *testing.T) {
		o := transformKul(verbatim.Record[verbatim.KulObservation]{ID: 5, Data: verbatim.KulObservation{
			DyntaxaTaxonID:  200,
			DecimalLatitude: floatp(57.7),
		}}, v)

		assert.False(t, o.HasCoordinates())
		assert.Nil(t, o.Latitude)
		assert.Nil(t, o.Longitude)
	})
}

func TestOccurrenceID(t *testing.T) {
	assert.Equal(t, "urn:lsid:KUL:abc", occurrenceID(provider.KUL, "abc", 1))
	assert.Equal(t, "urn:lsid:KUL:12", occurrenceID(provider.KUL, "", 12))
	assert.Equal(t, "urn:x", occurrenceID(provider.KUL, "urn:x", 12))
}
