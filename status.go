package workcopy

// CheckoutStats counts the on-disk changes a Checkout, SetSparsePatterns,
// or Snapshot call made (spec §8: end-to-end scenarios assert exact
// counts).
type CheckoutStats struct {
	Updated int
	Added   int
	Removed int
}

func (s *CheckoutStats) record(k changeKind) {
	switch k {
	case changeAdded:
		s.Added++
	case changeRemoved:
		s.Removed++
	case changeModified:
		s.Updated++
	}
}
