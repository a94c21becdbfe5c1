package digest

import "time"

// SetNowFunc overrides the assembler's clock. Tests use it to pin the
// selection window boundary.
func (a *Assembler) SetNowFunc(now func() time.Time) {
	if now != nil {
		a.now = now
	}
}
