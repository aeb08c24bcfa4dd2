package extraction

import "github.com/Sanaks-uk/EPO-data/internal/domain/patent"

// Stats summarizes field coverage across the assembled records, mirroring
// the per-run report printed at the end of an extraction.
type Stats struct {
	Assembled      int
	EntriesDropped int
	WindowsSkipped int

	WithPublicationDate int
	WithApplicantName   int
	WithCPCMain         int
	WithRepresentative  int
	WithOpposition      int
	WithAppeal          int
}

// fill recomputes the coverage counters from the record set. The skip and
// drop counters are accumulated during the run and left untouched.
func (s *Stats) fill(records []patent.PatentRecord) {
	s.Assembled = len(records)
	s.WithPublicationDate = 0
	s.WithApplicantName = 0
	s.WithCPCMain = 0
	s.WithRepresentative = 0
	s.WithOpposition = 0
	s.WithAppeal = 0

	for _, r := range records {
		if r.PublicationDate != "" {
			s.WithPublicationDate++
		}
		if r.ApplicantName != "" {
			s.WithApplicantName++
		}
		if r.CPCMain != "" {
			s.WithCPCMain++
		}
		if r.RepresentativeName != "" {
			s.WithRepresentative++
		}
		if r.OpponentName != "" {
			s.WithOpposition++
		}
		if r.AppealNumber != "" {
			s.WithAppeal++
		}
	}
}
