package services

// EnumerationPolicy decides which house numbers of a range are looked up.
//
// By default every number from Start to End inclusive is tried. MaxSpan > 0
// caps the end at Start+MaxSpan. With StopOnMiss the odd and even sequences
// are walked separately from the start and each stops at its first miss,
// trading completeness for fewer geocoder calls.
type EnumerationPolicy struct {
	StopOnMiss bool
	MaxSpan    int
}

// Walk calls try for each selected house number of r in ascending order per
// parity. try reports whether the number resolved; an error aborts the walk.
func (p EnumerationPolicy) Walk(r AddressRange, try func(n int) (bool, error)) error {
	end := r.End
	if p.MaxSpan > 0 && end > r.Start+p.MaxSpan {
		end = r.Start + p.MaxSpan
	}

	if !p.StopOnMiss {
		for n := r.Start; n <= end; n++ {
			if _, err := try(n); err != nil {
				return err
			}
		}
		return nil
	}

	for first := r.Start; first <= r.Start+1 && first <= end; first++ {
		for n := first; n <= end; n += 2 {
			found, err := try(n)
			if err != nil {
				return err
			}
			if !found {
				break
			}
		}
	}
	return nil
}
