package manifest

import "lualint/internal/listing"

// collector state machine. A marker call shows up in the listing as a
// GETGLOBAL of the marker name immediately followed by LOADK records
// for its constant arguments; any intervening record breaks the chain.
type state uint8

const (
	stateIdle state = iota
	statePendingImport
	statePendingDeclare
	statePendingIgnore
)

// Collect consumes the record sequence of one file and produces its
// manifest plus the passthrough reference list for the policy engine.
// path supplies the self-export name.
func Collect(path string, records []listing.Record) (*Manifest, []Reference) {
	m := New(path)
	refs := make([]Reference, 0, len(records))
	st := stateIdle

	for _, rec := range records {
		switch rec.Kind {
		case listing.KindGlobalRead:
			switch rec.Text {
			case MarkerImport:
				st = statePendingImport
			case MarkerDeclare:
				st = statePendingDeclare
			case MarkerIgnore:
				st = statePendingIgnore
			default:
				st = stateIdle
			}
			refs = append(refs, Reference{Name: rec.Text, Line: rec.Line, Kind: RefRead, Func: rec.Func})

		case listing.KindConstantLoad:
			switch st {
			case statePendingImport:
				m.Imports.Add(rec.Text)
				st = stateIdle
			case statePendingDeclare:
				m.Declared.Add(rec.Text)
				st = stateIdle
			case statePendingIgnore:
				// Sticky: every further chained constant is ignored too.
				m.Ignored.Add(rec.Text)
			default:
				st = stateIdle
			}

		case listing.KindGlobalWrite:
			st = stateIdle
			refs = append(refs, Reference{Name: rec.Text, Line: rec.Line, Kind: RefWrite, Func: rec.Func})

		default:
			st = stateIdle
		}
	}
	return m, refs
}
