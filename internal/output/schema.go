package output

// CatalogOutput lists the available reports.
type CatalogOutput struct {
	Reports []CatalogEntry `yaml:"reports" json:"reports"`
}

// CatalogEntry describes one available report.
type CatalogEntry struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Type  string `yaml:"type" json:"type"`
}

// ValidateOutput summarises a dataset validation run.
type ValidateOutput struct {
	// Path is the file that was checked.
	Path string `yaml:"path" json:"path"`

	// Valid is true when every record passed validation.
	Valid bool `yaml:"valid" json:"valid"`

	// Records and Patients count the accepted snapshot. Zero when invalid.
	Records  int `yaml:"records" json:"records"`
	Patients int `yaml:"patients" json:"patients"`

	FirstDate string `yaml:"first_date,omitempty" json:"first_date,omitempty"`
	LastDate  string `yaml:"last_date,omitempty" json:"last_date,omitempty"`

	// Problems lists every rejected field as "record N: field: reason".
	Problems []string `yaml:"problems,omitempty" json:"problems,omitempty"`
}
