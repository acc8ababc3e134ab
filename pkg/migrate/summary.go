package migrate

import "fmt"

// Summary counts what resolving one table did.
type Summary struct {
	Table     string
	Processed int
	Added     int
	Skipped   int
	Linked    int
	Warnings  int
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: processed=%d added=%d skipped=%d linked=%d warnings=%d",
		s.Table, s.Processed, s.Added, s.Skipped, s.Linked, s.Warnings)
}

// outcome is what resolving a single row did.
type outcome struct {
	ignored bool
	added   bool
	skipped bool
	linked  int
}

func (s *Summary) record(o outcome) {
	if o.ignored {
		return
	}
	s.Processed++
	if o.added {
		s.Added++
	}
	if o.skipped {
		s.Skipped++
	}
	s.Linked += o.linked
}
