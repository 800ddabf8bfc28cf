package brain

// Quadrature decoding for the rotary encoder.
//
// The two phase lines are sampled once per tick. The previous and current
// phase pairs form a 4-bit transition code (prev<<2 | cur) looked up in a
// fixed table: four codes are clockwise, four are counter-clockwise, and the
// rest (no movement, or an illegal double-transition from a missed sample)
// decode to nothing.
//
// A decoded transition is not surfaced immediately: contact chatter near a
// detent produces single-sample direction flips. A step is emitted only once
// two consecutive transitions agree on the direction; a disagreement resets
// the streak so the new direction is accepted after exactly one more
// consistent reading.

// Rotation direction as emitted by the decoder.
const (
	DirNone int8 = 0
	DirCW   int8 = 1
	DirCCW  int8 = -1
)

// quadTable maps a 4-bit phase transition code to a direction.
// Phase pair encoding: A<<1 | B.
var quadTable = [16]int8{
	0b0001: DirCW,
	0b0111: DirCW,
	0b1110: DirCW,
	0b1000: DirCW,

	0b0010: DirCCW,
	0b1011: DirCCW,
	0b1101: DirCCW,
	0b0100: DirCCW,
}

// EncoderState is the reducer-owned decoder state. Zero value is ready to
// use: the first sample only seeds the previous phase pair.
type EncoderState struct {
	Prev     uint8 // last phase pair (A<<1 | B)
	HavePrev bool

	Pending int8 // direction awaiting confirmation
	Streak  int  // consecutive transitions agreeing with Pending
}

// phasePair packs the two phase levels into the 2-bit code used by quadTable.
func phasePair(a, b bool) uint8 {
	var p uint8
	if a {
		p |= 0b10
	}
	if b {
		p |= 0b01
	}
	return p
}

// Step feeds one sampled phase pair into the decoder and returns the next
// state plus the confirmed direction for this tick (DirNone if idle,
// unconfirmed, or illegal).
func (e EncoderState) Step(a, b bool) (EncoderState, int8) {
	cur := phasePair(a, b)

	if !e.HavePrev {
		e.Prev = cur
		e.HavePrev = true
		return e, DirNone
	}

	code := e.Prev<<2 | cur
	e.Prev = cur

	dir := quadTable[code]
	if dir == DirNone {
		// Idle or illegal transition. Keep any pending streak: a pause
		// mid-detent should not cost the user another confirmation.
		return e, DirNone
	}

	if dir == e.Pending {
		e.Streak++
	} else {
		e.Pending = dir
		e.Streak = 1
	}

	if e.Streak >= 2 {
		return e, dir
	}
	return e, DirNone
}
