package validation

// Deduper tracks case-insensitive title keys for duplicate detection during an
// import run. The batch cache covers titles seen earlier in the same file; the
// existing index is a snapshot of persisted titles taken once before pass 2,
// so rows written during the run do not update it.
type Deduper struct {
	batch    map[string]int // title key -> first-seen CSV row
	existing map[string]int64
}

// NewDeduper creates an empty deduper
func NewDeduper() *Deduper {
	return &Deduper{
		batch:    make(map[string]int),
		existing: make(map[string]int64),
	}
}

// SetExistingTitles installs the persisted title->id snapshot
func (d *Deduper) SetExistingTitles(index map[string]int64) {
	d.existing = index
}

// SeenInBatch reports whether the title was already seen in this file and, if
// so, at which row.
func (d *Deduper) SeenInBatch(title string) (int, bool) {
	row, ok := d.batch[TitleKey(title)]
	return row, ok
}

// MarkSeen records a title's first occurrence row
func (d *Deduper) MarkSeen(title string, row int) {
	d.batch[TitleKey(title)] = row
}

// FindExisting looks the title up in the persisted snapshot
func (d *Deduper) FindExisting(title string) (int64, bool) {
	id, ok := d.existing[TitleKey(title)]
	return id, ok
}
