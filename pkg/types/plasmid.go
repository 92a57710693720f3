// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Plasmid holds the attributes of one repository record. Optional
// attributes use pointer fields: nil means the source page carried no
// value, which is distinct from an empty string. Sinks decide how nil
// maps onto their own null/empty convention; nothing upstream of a sink
// does that conversion.
//
// A Plasmid is assembled once and never mutated afterwards.
type Plasmid struct {
	// ID is the vendor's numeric identifier and the persistence
	// primary key.
	ID int `json:"id" yaml:"id"`

	// Name is the plasmid name shown on the vendor page. A record
	// without a resolvable name is discarded before persistence.
	Name string `json:"name" yaml:"name"`

	// Vendor identifies which repository the record came from
	// (e.g. "addgene").
	Vendor string `json:"vendor" yaml:"vendor"`

	// VendorURL is the detail page URL (e.g. "https://www.addgene.org/42888/").
	VendorURL string `json:"vendor_url" yaml:"vendor_url"`

	// Size is the total vector size in base pairs. When the page lacks
	// the size field it may be recovered from the sequence LOCUS line.
	Size *int `json:"size,omitempty" yaml:"size,omitempty"`

	// Backbone is the ancestor vector backbone.
	Backbone *string `json:"backbone,omitempty" yaml:"backbone,omitempty"`

	// VectorType is the purpose of the plasmid (e.g. "mammalian expression").
	VectorType *string `json:"vector_type,omitempty" yaml:"vector_type,omitempty"`

	// Marker lists selectable markers (e.g. "Gentamicin").
	Marker *string `json:"marker,omitempty" yaml:"marker,omitempty"`

	// Resistance lists bacterial resistances (e.g. "Kanamycin, 50 ug/mL").
	Resistance *string `json:"resistance,omitempty" yaml:"resistance,omitempty"`

	// GrowthTemp is the bacterial growth temperature (e.g. "37C").
	GrowthTemp *string `json:"growth_temp,omitempty" yaml:"growth_temp,omitempty"`

	// GrowthStrain names the recommended growth strain (e.g. "DH5alpha").
	GrowthStrain *string `json:"growth_strain,omitempty" yaml:"growth_strain,omitempty"`

	// GrowthInstructions carries any vendor-specific growth notes.
	GrowthInstructions *string `json:"growth_instructions,omitempty" yaml:"growth_instructions,omitempty"`

	// CopyNumber is the per-cell copy number class (e.g. "High Copy").
	CopyNumber *string `json:"copy_number,omitempty" yaml:"copy_number,omitempty"`

	// GeneInsert is the insert or gene name given by the depositors.
	GeneInsert *string `json:"gene_insert,omitempty" yaml:"gene_insert,omitempty"`

	// Sequence is the downloaded annotated-sequence (GenBank) file
	// content, decoded to valid UTF-8 with NUL bytes removed. nil when
	// the record has no downloadable sequence (e.g. pooled libraries).
	Sequence []byte `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// HasSequence reports whether a sequence payload was downloaded.
func (p *Plasmid) HasSequence() bool {
	return len(p.Sequence) > 0
}

// String returns a pointer to s. Convenience constructor for optional
// attribute fields, mostly in tests.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
