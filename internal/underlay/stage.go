package underlay

// Stage wraps a Correlator as a scheduler.Stage: the receive chain's first
// stage, consuming raw complex baseband samples and producing the tagged
// sample stream the FFT stage groups into symbols.
type Stage struct {
	c      *Correlator
	input  []complex128
	output []TaggedSample
}

// NewStage wraps c as a scheduler stage.
func NewStage(c *Correlator) *Stage { return &Stage{c: c} }

// SetInput implements scheduler.Stage.
func (s *Stage) SetInput(in any) { s.input = in.([]complex128) }

// Work implements scheduler.Stage.
func (s *Stage) Work() { s.output = s.c.Process(s.input) }

// TakeOutput implements scheduler.Stage.
func (s *Stage) TakeOutput() any {
	out := s.output
	s.output = nil
	return out
}
