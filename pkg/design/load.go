package design

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Hierarchy dump format, as produced by the elaboration front end:
//
//	{
//	  "design": "chip",
//	  "tops": [
//	    {
//	      "instance": "work@top",
//	      "module": "work@top_mod",
//	      "kind": "module",
//	      "children": [ ... ]
//	    }
//	  ]
//	}
//
// kind is one of module, generate, task, function, seq_block; anything else
// is carried through as an unclassified type with its numeric id.
type dumpInstance struct {
	Instance string         `json:"instance"`
	Module   string         `json:"module"`
	Kind     string         `json:"kind"`
	TypeID   int            `json:"type_id,omitempty"`
	Children []dumpInstance `json:"children,omitempty"`
}

type dumpFile struct {
	Design string         `json:"design"`
	Tops   []dumpInstance `json:"tops"`
}

// Load reads a hierarchy dump from disk.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hierarchy dump: %w", err)
	}
	return Parse(data)
}

// Parse decodes a hierarchy dump.
func Parse(data []byte) (*Design, error) {
	var raw dumpFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hierarchy dump: %w", err)
	}
	if len(raw.Tops) == 0 {
		return nil, fmt.Errorf("hierarchy dump has no top-level instances")
	}
	d := &Design{Name: raw.Design}
	for i := range raw.Tops {
		d.Tops = append(d.Tops, buildInstance(&raw.Tops[i], nil))
	}
	return d, nil
}

func buildInstance(raw *dumpInstance, parent *Instance) *Instance {
	inst := &Instance{
		Name:    raw.Instance,
		Module:  raw.Module,
		Kind:    parseKind(raw.Kind),
		RawKind: raw.TypeID,
		Parent:  parent,
	}
	for i := range raw.Children {
		inst.Subs = append(inst.Subs, buildInstance(&raw.Children[i], inst))
	}
	return inst
}

func parseKind(s string) Kind {
	switch s {
	case "module":
		return KindModule
	case "generate":
		return KindGenerate
	case "task", "function":
		return KindTaskFunc
	case "seq_block":
		return KindSeqBlock
	default:
		return KindOther
	}
}
