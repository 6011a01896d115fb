package diag

// Sink is an append-only diagnostic collection for one conversion pass.
// Callers reset it between passes; visitors share a single sink per pass.
type Sink struct {
	filename string
	diags    []Diagnostic
}

// NewSink creates a sink that stamps the filename onto recorded diagnostics.
func NewSink(filename string) *Sink {
	return &Sink{filename: filename}
}

// Record appends a diagnostic built from the given parts.
func (s *Sink) Record(d Diagnostic) {
	if d.Filename == "" {
		d.Filename = s.filename
	}
	if d.Severity == "" {
		d.Severity = SeverityError
	}
	if d.Source == "" {
		d.Source = SourceParser
	}
	s.diags = append(s.diags, d)
}

// All returns the recorded diagnostics in recording order.
func (s *Sink) All() []Diagnostic { return s.diags }

// HasErrors reports whether any recorded diagnostic has Error severity.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Reset discards all recorded diagnostics so the sink can serve a new pass.
func (s *Sink) Reset() { s.diags = s.diags[:0] }
