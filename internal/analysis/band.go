package analysis

// NeutralEnergy is reported when there is nothing to measure, so visuals
// stay lively without audio.
const NeutralEnergy = 0.5

// Band is a contiguous slice of the snapshot treated as one energy signal.
type Band int

const (
	Bass Band = iota
	Mid
	Treble
)

func (b Band) String() string {
	switch b {
	case Bass:
		return "bass"
	case Mid:
		return "mid"
	case Treble:
		return "treble"
	default:
		return "unknown"
	}
}

// Range returns the half-open index slice [start, end) the band covers in a
// snapshot of n bins: bass [0%,10%), mid [10%,40%), treble [40%,80%).
func (b Band) Range(n int) (start, end int) {
	switch b {
	case Bass:
		return 0, n / 10
	case Mid:
		return n / 10, n * 4 / 10
	case Treble:
		return n * 4 / 10, n * 8 / 10
	default:
		return 0, 0
	}
}

// Energy returns the mean magnitude of the band's slice divided by 255.
// A nil snapshot or an empty slice yields NeutralEnergy.
func Energy(b Band, s Snapshot) float64 {
	if s == nil {
		return NeutralEnergy
	}
	start, end := b.Range(len(s))
	if end <= start {
		return NeutralEnergy
	}
	var sum int
	for _, v := range s[start:end] {
		sum += int(v)
	}
	return float64(sum) / float64(end-start) / 255
}

// Energies holds the three band energies measured for one frame.
type Energies struct {
	Bass   float64
	Mid    float64
	Treble float64
}

// Measure computes all three band energies of s.
func Measure(s Snapshot) Energies {
	return Energies{
		Bass:   Energy(Bass, s),
		Mid:    Energy(Mid, s),
		Treble: Energy(Treble, s),
	}
}
