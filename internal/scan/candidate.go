package scan

// Encoding names the byte interpretation that produced a candidate.
type Encoding string

const (
	EncodingFloat64    Encoding = "float64"
	EncodingInt32Cents Encoding = "int32_cents"
)

// Outcome tags a candidate as accepted or rejected.
type Outcome int

const (
	Accepted Outcome = iota + 1
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Rejection reasons.
const (
	ReasonOutOfRange = "out of range"
	ReasonNotFinite  = "not finite"
	ReasonMagnitude  = "magnitude outside bounds"
	ReasonNotCents   = "not a whole number of cents"
)

// Candidate is one heuristic hypothesis about the bytes at Offset. Value and
// Confidence are meaningful only when Outcome is Accepted; Reason only when
// Outcome is Rejected.
type Candidate struct {
	Offset     int
	Encoding   Encoding
	Value      float64
	Outcome    Outcome
	Confidence float64
	Reason     string
}

// Accept builds an accepted candidate.
func Accept(offset int, enc Encoding, value, confidence float64) Candidate {
	return Candidate{Offset: offset, Encoding: enc, Value: value, Outcome: Accepted, Confidence: confidence}
}

// Reject builds a rejected candidate carrying the raw value for debugging.
func Reject(offset int, enc Encoding, value float64, reason string) Candidate {
	return Candidate{Offset: offset, Encoding: enc, Value: value, Outcome: Rejected, Reason: reason}
}

// IsAccepted reports whether the candidate passed its plausibility test.
func (c Candidate) IsAccepted() bool {
	return c.Outcome == Accepted
}

// AcceptedOnly filters cands down to accepted candidates, preserving order.
func AcceptedOnly(cands []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.IsAccepted() {
			out = append(out, c)
		}
	}
	return out
}
