// Package roster loads the student roster (ID → display name) from CSV.
// A Roster is immutable once built and safe for concurrent readers.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column headers the roster must carry. Extra columns are ignored.
const (
	ColumnID   = "ID"
	ColumnName = "NAME"
)

// Sentinel errors for roster loading.
var (
	ErrRosterRead    = errors.New("failed to read roster")
	ErrMissingColumn = errors.New("roster missing required column")
)

// Entry is one roster row.
type Entry struct {
	ID   string
	Name string
}

// Roster is the ordered entry list plus the derived ID → name mapping.
type Roster struct {
	entries []Entry
	byID    map[string]string
}

// Load reads the roster CSV at path.
func Load(path string) (*Roster, error) {
	f, err := os.Open(path) // #nosec G304 -- roster path is operator-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterRead, err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse builds a Roster from CSV with a header row.
// Rows keep file order; when an ID repeats, the later row wins in Lookup.
func Parse(r io.Reader) (*Roster, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s, %s (empty file)", ErrMissingColumn, ColumnID, ColumnName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterRead, err)
	}

	idCol, nameCol := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case ColumnID:
			idCol = i
		case ColumnName:
			nameCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnID)
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnName)
	}

	ros := &Roster{byID: make(map[string]string)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRosterRead, err)
		}
		e := Entry{ID: cell(rec, idCol), Name: cell(rec, nameCol)}
		ros.entries = append(ros.entries, e)
		ros.byID[e.ID] = e.Name
	}
	return ros, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Entries returns a copy of the rows in file order.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns a copy of the ID → name mapping.
func (r *Roster) Names() map[string]string {
	out := make(map[string]string, len(r.byID))
	for k, v := range r.byID {
		out[k] = v
	}
	return out
}

// Lookup returns the display name for id.
func (r *Roster) Lookup(id string) (string, bool) {
	name, ok := r.byID[id]
	return name, ok
}

// Len returns the number of rows.
func (r *Roster) Len() int {
	return len(r.entries)
}
