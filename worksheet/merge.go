package worksheet

import "github.com/gosheetkit/sheetkit/cellref"

// MergeRegion is one merged-cell range. The rectangle tuple is cached
// lazily from Ref the first time it's needed (e.g. right after Decode,
// where only the reference string is known) rather than eagerly parsed
// on every read.
type MergeRegion struct {
	Ref    string
	c1, r1, c2, r2 int
	cached bool
}

func (m *MergeRegion) rect() (c1, r1, c2, r2 int, err error) {
	if m.cached {
		return m.c1, m.r1, m.c2, m.r2, nil
	}
	rr, err := cellref.ParseRange(m.Ref)
	if err != nil {
		return 0, 0, 0, 0, errKind("InvalidMergeCellReference", "worksheet: %v", err)
	}
	m.c1, m.r1 = rr.Start.Col, rr.Start.Row
	m.c2, m.r2 = rr.End.Col, rr.End.Row
	if m.c1 > m.c2 {
		m.c1, m.c2 = m.c2, m.c1
	}
	if m.r1 > m.r2 {
		m.r1, m.r2 = m.r2, m.r1
	}
	m.cached = true
	return m.c1, m.r1, m.c2, m.r2, nil
}

func rectsOverlap(c1, r1, c2, r2, d1, s1, d2, s2 int) bool {
	return c1 <= d2 && d1 <= c2 && r1 <= s2 && s1 <= r2
}

// Merge adds a new merge region spanning ref ("A1:B2"), failing
// InvalidMergeCellReference on a malformed reference and
// MergeCellOverlap if it intersects an existing region.
func (s *Sheet) Merge(ref string) error {
	m := &MergeRegion{Ref: ref}
	c1, r1, c2, r2, err := m.rect()
	if err != nil {
		return err
	}
	if c1 == c2 && r1 == r2 {
		return errKind("InvalidMergeCellReference", "worksheet: merge range %q must span more than one cell", ref)
	}
	for i := range s.Merges {
		oc1, or1, oc2, or2, err := s.Merges[i].rect()
		if err != nil {
			continue
		}
		if rectsOverlap(c1, r1, c2, r2, oc1, or1, oc2, or2) {
			return errKind("MergeCellOverlap", "worksheet: merge range %q overlaps existing merge %q", ref, s.Merges[i].Ref)
		}
	}
	s.Merges = append(s.Merges, *m)
	return nil
}

// Unmerge removes the merge region exactly matching ref, failing
// MergeCellNotFound if no such region exists.
func (s *Sheet) Unmerge(ref string) error {
	for i := range s.Merges {
		if s.Merges[i].Ref == ref {
			s.Merges = append(s.Merges[:i], s.Merges[i+1:]...)
			return nil
		}
	}
	return errKind("MergeCellNotFound", "worksheet: no merge region %q", ref)
}
