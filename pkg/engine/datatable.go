package engine

// dataTable is the insertion-ordered mapping URL -> ParseResult | ⊥
// described in spec.md §3. It is owned exclusively by the Engine's loop
// goroutine and must never be touched from anywhere else.
type dataTable struct {
	order []string // seed URLs, in declared option order
	slots map[string][]any
	has   map[string]bool // tracks ⊥ (absent) vs "present, possibly empty"
}

func newDataTable(seeds []string) *dataTable {
	d := &dataTable{
		order: append([]string(nil), seeds...),
		slots: make(map[string][]any, len(seeds)),
		has:   make(map[string]bool, len(seeds)),
	}
	return d
}

// Seeds returns the current seed order (shrinks as Prune removes 404s).
func (d *dataTable) Seeds() []string {
	return append([]string(nil), d.order...)
}

// Set fully replaces the slot for seed — never appends.
func (d *dataTable) Set(seed string, records []any) {
	d.slots[seed] = records
	d.has[seed] = true
}

// Get returns the slot for seed and whether it has ever been filled.
func (d *dataTable) Get(seed string) ([]any, bool) {
	if !d.has[seed] {
		return nil, false
	}
	return d.slots[seed], true
}

// Prune removes seed from the table and the seed order entirely —
// used only for the 404 NotFound case (spec.md §4.4.3).
func (d *dataTable) Prune(seed string) {
	delete(d.slots, seed)
	delete(d.has, seed)
	for i, s := range d.order {
		if s == seed {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Flatten concatenates every filled slot in seed order. partial reports
// whether any seed is still ⊥.
func (d *dataTable) Flatten() (records []any, partial bool) {
	for _, seed := range d.order {
		if !d.has[seed] {
			partial = true
			continue
		}
		records = append(records, d.slots[seed]...)
	}
	return records, partial
}
