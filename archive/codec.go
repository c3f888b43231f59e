package archive

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/nodeshard/shuttle/address"
)

// wireVersion is the manifest encoding version.
const wireVersion = 1

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. The same archive always serializes to identical
// bytes, so re-storing an unchanged archive re-derives the same address
// instead of paying for a second copy.
var encMode cbor.EncMode

// decMode is the CBOR decoder. Unknown fields are ignored for forward
// compatibility; everything the model needs is validated after decoding.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("archive: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("archive: CBOR decoder initialization failed: " + err.Error())
	}
}

// wireArchive is the serialized manifest shape.
type wireArchive struct {
	Version int         `json:"v"`
	Entries []wireEntry `json:"entries"`
}

// wireEntry is one serialized manifest entry.
type wireEntry struct {
	Path    string `json:"path"`
	Address []byte `json:"addr"`
}

// Serialize encodes the archive for storing on the network.
func (a *Archive) Serialize() ([]byte, error) {
	w := wireArchive{
		Version: wireVersion,
		Entries: make([]wireEntry, 0, len(a.entries)),
	}
	for _, e := range a.entries {
		w.Entries = append(w.Entries, wireEntry{Path: e.Path, Address: e.Address.Bytes()})
	}

	data, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("archive: encode: %w", err)
	}
	return data, nil
}

// Deserialize decodes fetched bytes into an archive. It fails with
// ErrCorrupt for anything that is not a well-formed encoding — wrong CBOR,
// wrong version, bad entry path, bad address — and never returns a
// partially populated archive.
func Deserialize(data []byte) (*Archive, error) {
	var w wireArchive
	if err := decMode.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if w.Version != wireVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, w.Version)
	}

	a := New()
	for _, e := range w.Entries {
		addr, err := address.NewData(e.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %w", ErrCorrupt, e.Path, err)
		}
		if err := a.Add(e.Path, addr); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return a, nil
}
