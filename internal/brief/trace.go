package brief

// FieldSource records how one field of a StructuredBrief was filled.
type FieldSource struct {
	Field     string `json:"field" yaml:"field"`
	Rule      string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Defaulted bool   `json:"defaulted" yaml:"defaulted"`
}

// Trace explains a parse. It is diagnostic output for the CLI and API and
// is not part of the brief itself.
type Trace struct {
	Mode   Mode          `json:"mode" yaml:"mode"`
	Fields []FieldSource `json:"fields" yaml:"fields"`
	// Indicators holds the per-locale indicator token counts. Enhanced
	// mode only.
	Indicators map[string]int `json:"indicators,omitempty" yaml:"indicators,omitempty"`
}

func (t *Trace) record(field, rule string) {
	t.Fields = append(t.Fields, FieldSource{Field: field, Rule: rule, Defaulted: rule == ""})
}

func (t *Trace) recordList(field string, items []string) {
	rule := ""
	if len(items) > 0 {
		rule = "labels"
	}
	t.record(field, rule)
}

// Defaulted lists the fields that fell back to their default value.
func (t Trace) Defaulted() []string {
	var out []string
	for _, f := range t.Fields {
		if f.Defaulted {
			out = append(out, f.Field)
		}
	}
	return out
}

// Source returns the entry for field, if recorded.
func (t Trace) Source(field string) (FieldSource, bool) {
	for _, f := range t.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldSource{}, false
}
