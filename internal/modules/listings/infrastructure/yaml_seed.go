package infrastructure

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"studentForum/internal/modules/listings/domain"
)

// SeedFile is the YAML layout of a listings seed:
//
//	opportunities:
//	  - title: Summer research internship
//	    organization: City University
//	scholarships:
//	  - title: STEM merit award
//	    amount: "2000 USD"
type SeedFile struct {
	Opportunities []domain.Listing `yaml:"opportunities"`
	Scholarships  []domain.Listing `yaml:"scholarships"`
}

// Listings flattens the file, stamping each entry with its section's kind.
func (f SeedFile) Listings() []domain.Listing {
	out := make([]domain.Listing, 0, len(f.Opportunities)+len(f.Scholarships))
	for _, l := range f.Opportunities {
		l.Kind = domain.KindOpportunity
		out = append(out, l)
	}
	for _, l := range f.Scholarships {
		l.Kind = domain.KindScholarship
		out = append(out, l)
	}
	return out
}

func LoadSeedFile(path string) (SeedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return SeedFile{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

func DecodeSeed(r io.Reader) (SeedFile, error) {
	var file SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return file, nil
}
