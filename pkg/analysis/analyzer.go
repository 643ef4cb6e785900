// Package analysis provides corpus-level parsing metrics.
package analysis

// Outcome is what became of one sentence.
type Outcome int

const (
	Parsed Outcome = iota
	Ungrammatical
	TooAmbiguous
)

// String returns the failure reason recorded for the outcome.
func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Ungrammatical:
		return "ungrammatical"
	case TooAmbiguous:
		return "too_ambiguous"
	default:
		return "unknown"
	}
}

// Stats holds the computed metrics
type Stats struct {
	Messages        int     `json:"messages"`
	Selected        int     `json:"selectedMessages"`
	Sentences       int     `json:"sentences"`
	Words           int     `json:"words"`
	Parsed          int     `json:"parsed"`
	Ungrammatical   int     `json:"ungrammatical"`
	TooAmbiguous    int     `json:"tooAmbiguous"`
	AvgSentenceLen  float64 `json:"avgSentenceLen"`
	GrammaticalRate float64 `json:"grammaticalRate"` // 0-100
	Trend           []int   `json:"trend"`           // Sparkline data
}

// DefaultWindow is the number of sentences per trend point.
const DefaultWindow = 1000

// Analyzer accumulates metrics over a run. It is not safe for concurrent
// use; the pipeline feeds it from a single goroutine.
type Analyzer struct {
	window int

	messages, selected int
	sentences, words   int
	outcomes           [3]int

	// Current trend window
	winParsed, winTotal int
	trend               []int
}

// NewAnalyzer creates an analyzer emitting a trend point every window
// sentences.
func NewAnalyzer(window int) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Analyzer{window: window}
}

// AddMessage counts one input message. selected reports whether any of
// its sentences passed the gate.
func (a *Analyzer) AddMessage(selected bool) {
	a.messages++
	if selected {
		a.selected++
	}
}

// AddSentence counts one parsed or failed sentence of the given length.
func (a *Analyzer) AddSentence(words int, outcome Outcome) {
	a.sentences++
	a.words += words
	if outcome >= Parsed && outcome <= TooAmbiguous {
		a.outcomes[outcome]++
	}

	a.winTotal++
	if outcome == Parsed {
		a.winParsed++
	}
	if a.winTotal == a.window {
		a.pushTrend()
	}
}

// pushTrend closes the current window. Points are smoothed with the
// previous point: current = 0.7 * window rate + 0.3 * previous.
func (a *Analyzer) pushTrend() {
	rate := 100 * a.winParsed / a.winTotal
	if n := len(a.trend); n > 0 {
		rate = int(0.7*float64(rate) + 0.3*float64(a.trend[n-1]))
	}
	a.trend = append(a.trend, rate)
	a.winParsed, a.winTotal = 0, 0
}

// Stats computes the full suite of metrics so far. A partly filled trend
// window is included as a final point.
func (a *Analyzer) Stats() Stats {
	s := Stats{
		Messages:      a.messages,
		Selected:      a.selected,
		Sentences:     a.sentences,
		Words:         a.words,
		Parsed:        a.outcomes[Parsed],
		Ungrammatical: a.outcomes[Ungrammatical],
		TooAmbiguous:  a.outcomes[TooAmbiguous],
	}
	if a.sentences > 0 {
		s.AvgSentenceLen = float64(a.words) / float64(a.sentences)
		s.GrammaticalRate = 100 * float64(s.Parsed) / float64(a.sentences)
	}

	s.Trend = append([]int(nil), a.trend...)
	if a.winTotal > 0 {
		rate := 100 * a.winParsed / a.winTotal
		if n := len(s.Trend); n > 0 {
			rate = int(0.7*float64(rate) + 0.3*float64(s.Trend[n-1]))
		}
		s.Trend = append(s.Trend, rate)
	}
	return s
}
