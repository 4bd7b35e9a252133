package rubric

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keywords is the vocabulary the identity filter, scheme classifier and
// extractor match against. Identity, content and header lists match
// case-insensitively; scheme markers and table selectors match the raw
// document text as written.
type Keywords struct {
	// Strong identity keywords mark a table as document metadata on a single hit.
	Strong []string `yaml:"strong"`

	// Weak identity keywords mark a table as metadata once WeakThreshold of
	// them are present.
	Weak          []string `yaml:"weak"`
	WeakThreshold int      `yaml:"weak_threshold"`

	// Content keywords mark a table as assessment content.
	Content []string `yaml:"content"`

	// HeaderTokens are bare column headers that never become criteria.
	HeaderTokens []string `yaml:"header_tokens"`

	Markers   SchemeMarkers  `yaml:"markers"`
	Selectors TableSelectors `yaml:"selectors"`
}

// SchemeMarkers are the literal phrases that declare a scoring scheme.
type SchemeMarkers struct {
	Rubric              string `yaml:"rubric"`
	DescriptiveCriteria string `yaml:"descriptive_criteria"`
	ValueInterval       string `yaml:"value_interval"`
	// Approach prefixes a free-text declaration of the assessment approach.
	Approach string `yaml:"approach"`
}

// TableSelectors pick the candidate table for each extraction path.
type TableSelectors struct {
	RubricHeading []string `yaml:"rubric_heading"`
	RubricLevels  []string `yaml:"rubric_levels"`
	Generic       []string `yaml:"generic"`
}

// DefaultKeywords returns the Indonesian vocabulary used by generated
// lesson plans (Modul Ajar).
func DefaultKeywords() Keywords {
	return Keywords{
		Strong: []string{
			"satuan pendidikan",
			"nama guru",
			"nip",
			"identitas",
			"kepala sekolah",
			"nama penyusun",
		},
		Weak: []string{
			"mata pelajaran",
			"kelas",
			"semester",
			"materi",
			"alokasi waktu",
			"tahun ajaran",
			"kurikulum",
		},
		WeakThreshold: 3,
		Content:       []string{"kriteria", "skor", "rentang", "interval"},
		HeaderTokens:  []string{"aspek", "kriteria", "kompetensi", "no"},
		Markers: SchemeMarkers{
			Rubric:              "RUBRIK PENILAIAN",
			DescriptiveCriteria: "DESKRIPSI KRITERIA",
			ValueInterval:       "INTERVAL NILAI",
			Approach:            "Pendekatan yang digunakan:",
		},
		Selectors: TableSelectors{
			RubricHeading: []string{"Aspek", "Kriteria"},
			RubricLevels:  []string{"Mahir", "Sangat Baik", "4"},
			Generic:       []string{"Kriteria", "Deskripsi", "Indikator", "Interval"},
		},
	}
}

// Identity returns the strong and weak keywords together. Rows whose aspect
// equals one of them are metadata, not criteria.
func (k Keywords) Identity() []string {
	out := make([]string, 0, len(k.Strong)+len(k.Weak))
	out = append(out, k.Strong...)
	return append(out, k.Weak...)
}

// Validate reports a vocabulary that would make the pipeline meaningless.
func (k Keywords) Validate() error {
	if len(k.Strong) == 0 && len(k.Weak) == 0 {
		return fmt.Errorf("keywords: no identity keywords")
	}
	if k.WeakThreshold < 1 {
		return fmt.Errorf("keywords: weak_threshold must be at least 1, got %d", k.WeakThreshold)
	}
	if k.Markers.Rubric == "" || k.Markers.DescriptiveCriteria == "" || k.Markers.ValueInterval == "" {
		return fmt.Errorf("keywords: all scheme markers are required")
	}
	if len(k.Selectors.RubricHeading) == 0 || len(k.Selectors.RubricLevels) == 0 || len(k.Selectors.Generic) == 0 {
		return fmt.Errorf("keywords: table selectors are required")
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate a filter's vocabulary.
func (k Keywords) clone() Keywords {
	k.Strong = slices.Clone(k.Strong)
	k.Weak = slices.Clone(k.Weak)
	k.Content = slices.Clone(k.Content)
	k.HeaderTokens = slices.Clone(k.HeaderTokens)
	k.Selectors.RubricHeading = slices.Clone(k.Selectors.RubricHeading)
	k.Selectors.RubricLevels = slices.Clone(k.Selectors.RubricLevels)
	k.Selectors.Generic = slices.Clone(k.Selectors.Generic)
	return k
}

// normalized returns a deep copy with the case-insensitive lists lower-cased.
func (k Keywords) normalized() Keywords {
	k = k.clone()
	for _, list := range [][]string{k.Strong, k.Weak, k.Content, k.HeaderTokens} {
		for i, s := range list {
			list[i] = strings.ToLower(strings.TrimSpace(s))
		}
	}
	return k
}

// LoadKeywords reads a YAML vocabulary file. Fields left out of the file
// keep their DefaultKeywords values.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("read keywords file: %w", err)
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes a YAML vocabulary over the defaults.
func ParseKeywords(data []byte) (Keywords, error) {
	kw := DefaultKeywords()
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("parse keywords: %w", err)
	}
	if err := kw.Validate(); err != nil {
		return Keywords{}, err
	}
	return kw, nil
}
