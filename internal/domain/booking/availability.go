package booking

import "github.com/clinicportal/portal/internal/domain/catalog"

// FreeSlots returns a copy of options where each option's slots have the
// slots booked for it removed. Slot order is preserved and the inputs are
// not modified.
func FreeSlots(options []*catalog.TreatmentOption, booked []*Booking) []*catalog.TreatmentOption {
	taken := make(map[string]map[string]bool)
	for _, b := range booked {
		if taken[b.Treatment] == nil {
			taken[b.Treatment] = make(map[string]bool)
		}
		taken[b.Treatment][b.Slot] = true
	}

	out := make([]*catalog.TreatmentOption, 0, len(options))
	for _, o := range options {
		free := make([]string, 0, len(o.Slots))
		for _, s := range o.Slots {
			if !taken[o.Name][s] {
				free = append(free, s)
			}
		}
		cp := *o
		cp.Slots = free
		out = append(out, &cp)
	}
	return out
}
