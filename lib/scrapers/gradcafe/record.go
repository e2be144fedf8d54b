package gradcafe

// Record is a single admissions result posting. Every field except the
// source url is best-effort; nil marshals to an explicit null so every
// serialized record carries the full key set.
type Record struct {
	Program     *string `json:"program"`
	University  *string `json:"university"`
	Comments    *string `json:"comments"`
	DateAdded   *string `json:"date_added"`
	SourceUrl   *string `json:"entry_url"`
	Status      *string `json:"status"`
	AcceptDate  *string `json:"accept_date"`
	RejectDate  *string `json:"reject_date"`
	StartTerm   *string `json:"start_term"`
	StartYear   *string `json:"start_year"`
	Citizenship *string `json:"intl_american"`
	GreTotal    *string `json:"gre_total"`
	GreVerbal   *string `json:"gre_verbal"`
	GreAw       *string `json:"gre_aw"`
	Degree      *string `json:"degree"`
	Gpa         *string `json:"gpa"`
}

// Key identifies a record across runs. Two postings with the same source
// page, program and university are considered the same result.
type Key struct {
	SourceUrl  string
	Program    string
	University string
}

func (r Record) Key() Key {
	return Key{
		SourceUrl:  deref(r.SourceUrl),
		Program:    deref(r.Program),
		University: deref(r.University),
	}
}

// HasSignal reports whether the record carries at least one identifying
// field. Rows without any are layout artifacts, not results.
func (r Record) HasSignal() bool {
	return deref(r.University) != "" || deref(r.Program) != "" || deref(r.Status) != ""
}

func newRecord(sourceUrl string) Record {
	return Record{SourceUrl: optional(sourceUrl)}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
