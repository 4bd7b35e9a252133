package rubric

// Parser runs the whole extraction pipeline: segment, filter identity
// tables, classify the scheme, extract criteria.
type Parser struct {
	filter     *IdentityFilter
	classifier *SchemeClassifier
	extractor  *Extractor
}

// NewParser builds a parser over the given vocabulary.
func NewParser(kw Keywords) *Parser {
	return &Parser{
		filter:     NewIdentityFilter(kw),
		classifier: NewSchemeClassifier(kw),
		extractor:  NewExtractor(kw),
	}
}

// DefaultParser returns a parser over DefaultKeywords.
func DefaultParser() *Parser {
	return NewParser(DefaultKeywords())
}

// Parse extracts the rubric of a document.
func (p *Parser) Parse(document string) Rubric {
	r, _ := p.ParseWithReport(document)
	return r
}

// ParseWithReport extracts the rubric and reports how it got there.
func (p *Parser) ParseWithReport(document string) (Rubric, Report) {
	blocks := Segment(document)
	content := p.filter.FilterContentTables(blocks)
	cl := p.classifier.Classify(document)
	ex := p.extractor.Extract(cl, content)

	return ex.Rubric, Report{
		Blocks:        len(blocks),
		ContentBlocks: len(content),
		Classified:    cl.Scheme,
		Path:          ex.Path,
		Skipped:       ex.Skipped,
	}
}

// IdentityFilter returns the parser's identity filter.
func (p *Parser) IdentityFilter() *IdentityFilter { return p.filter }

// Classifier returns the parser's scheme classifier.
func (p *Parser) Classifier() *SchemeClassifier { return p.classifier }
