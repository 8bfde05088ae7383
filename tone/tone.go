// Package tone holds the CTCSS tone table, the operator's selection and the
// conversion from a tone frequency to the PIO bit clock divider.
package tone

// Selection is what the control worker publishes to the audio worker.
type Selection struct {
	Index   int
	Enabled bool
}

// ctcss lists the standard subtone frequencies in Hz.
var ctcss = [...]float32{
	67.0, 69.3, 71.9, 74.4, 77.0, 79.7, 82.5, 85.4, 88.5, 91.5, 94.8, 97.4, 100.0, 103.5, 107.2,
	110.9, 114.8, 118.8, 123.0, 127.3, 131.8, 136.5, 141.3, 146.2, 150.0, 151.4, 156.7, 159.8,
	162.2, 165.5, 167.9, 171.3, 173.8, 177.3, 179.9, 183.5, 186.2, 189.9, 192.8, 196.6, 199.5,
	203.5, 206.5, 210.7, 218.1, 225.7, 229.1, 233.6, 241.8, 250.3, 254.1,
}

// Table is an ordered, immutable list of tone frequencies.
type Table struct {
	freqs []float32
	// ReserveLast keeps the final entry out of the encoder's wrap cycle.
	// It can still be restored from a persisted record.
	ReserveLast bool
}

// CTCSS returns the 51 entry standard tone table.
func CTCSS() Table {
	return Table{freqs: ctcss[:]}
}

// NewTable returns a table over a copy of freqs.
func NewTable(freqs ...float32) Table {
	return Table{freqs: append([]float32(nil), freqs...)}
}

func (t Table) Len() int { return len(t.freqs) }

// Valid reports whether i indexes the table.
func (t Table) Valid(i int) bool { return i >= 0 && i < len(t.freqs) }

// Freq returns the frequency at index i in Hz.
func (t Table) Freq(i int) float32 { return t.freqs[i] }

// cycle is the number of entries the encoder steps through.
func (t Table) cycle() int {
	if t.ReserveLast && len(t.freqs) > 1 {
		return len(t.freqs) - 1
	}
	return len(t.freqs)
}

// Next returns the index after i, wrapping to 0 past the end of the cycle.
func (t Table) Next(i int) int {
	if i < 0 || i+1 >= t.cycle() {
		return 0
	}
	return i + 1
}

// Prev returns the index before i, wrapping from 0 to the last entry. With
// ReserveLast that entry is only reachable this way.
func (t Table) Prev(i int) int {
	n := len(t.freqs)
	if i <= 0 || i >= n {
		return n - 1
	}
	return i - 1
}
