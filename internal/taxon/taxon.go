package taxon

// Taxon is the part of the taxonomy a processed observation is decorated with.
type Taxon struct {
	ID             int
	ScientificName string
	VernacularName string
	Rank           string
	Kingdom        string
	Family         string
	ParentID       *int
}
