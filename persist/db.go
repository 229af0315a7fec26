package persist

import (
	"fmt"
	"os"

	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/katalvlaran/llama-csr/propstore"
)

// SaveDatabase writes every level in stack and every registered column in
// store to dir, then writes a catalog enumerating them. dir is created if
// it does not exist. stack's levels must be numbered contiguously from 0
// (true of any Stack built purely through Append, i.e. one that has never
// had DeleteLevel called on it) — OpenDatabase relies on the same
// assumption to reconstruct the stack in level-number order.
func SaveDatabase(dir string, stack *levelstack.Stack, store *propstore.Store) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create database dir: %w", err)
	}

	cat := NewCatalog()
	for i := 0; i < stack.NumLevels(); i++ {
		lvl := stack.LevelAt(i)
		if lvl.Number != uint32(i) {
			return fmt.Errorf("persist: level at stack position %d has non-contiguous number %d; SaveDatabase requires a stack with no retired levels", i, lvl.Number)
		}
		if err := WriteLevel(dir, lvl); err != nil {
			return err
		}
		cat.Levels = append(cat.Levels, lvl.Number)
	}

	for _, name := range store.NodePropertyNames32() {
		col, _ := store.GetNodeProperty32(name)
		if err := WriteColumn32(dir, col); err != nil {
			return err
		}
		cat.Properties = append(cat.Properties, PropertyDescriptor{Name: name, Entity: "node", Width: 32, Tag: col.Tag().String()})
	}
	for _, name := range store.EdgePropertyNames32() {
		col, _ := store.GetEdgeProperty32(name)
		if err := WriteColumn32(dir, col); err != nil {
			return err
		}
		cat.Properties = append(cat.Properties, PropertyDescriptor{Name: name, Entity: "edge", Width: 32, Tag: col.Tag().String()})
	}
	for _, name := range store.NodePropertyNames64() {
		col, _ := store.GetNodeProperty64(name)
		if col.Tag() == propstore.TagStringPtr {
			continue // see WriteColumn64: string columns are not persisted
		}
		if err := WriteColumn64(dir, col); err != nil {
			return err
		}
		cat.Properties = append(cat.Properties, PropertyDescriptor{Name: name, Entity: "node", Width: 64, Tag: col.Tag().String()})
	}
	for _, name := range store.EdgePropertyNames64() {
		col, _ := store.GetEdgeProperty64(name)
		if col.Tag() == propstore.TagStringPtr {
			continue
		}
		if err := WriteColumn64(dir, col); err != nil {
			return err
		}
		cat.Properties = append(cat.Properties, PropertyDescriptor{Name: name, Entity: "edge", Width: 64, Tag: col.Tag().String()})
	}

	return SaveCatalog(dir, cat)
}

// OpenDatabase reopens a database directory written by SaveDatabase,
// returning a freshly reconstructed Stack, a Store with every persisted
// column reloaded, and the catalog itself.
func OpenDatabase(dir string) (*levelstack.Stack, *propstore.Store, Catalog, error) {
	cat, err := LoadCatalog(dir)
	if err != nil {
		return nil, nil, Catalog{}, err
	}
	for i, n := range cat.Levels {
		if n != uint32(i) {
			return nil, nil, Catalog{}, fmt.Errorf("persist: catalog has non-contiguous level numbers (level %d at position %d); OpenDatabase does not support reopening a database with retired levels", n, i)
		}
	}

	stack := levelstack.New()
	for _, n := range cat.Levels {
		lvl, err := ReadLevel(dir, n)
		if err != nil {
			return nil, nil, Catalog{}, err
		}
		stack.Append(lvl)
	}

	store := propstore.NewStore()
	levelCount := len(cat.Levels)
	for _, desc := range cat.Properties {
		tag, err := parseTag(desc.Tag)
		if err != nil {
			return nil, nil, Catalog{}, err
		}
		switch desc.Width {
		case 32:
			col, err := createColumn32(store, desc.Entity, desc.Name, tag)
			if err != nil {
				return nil, nil, Catalog{}, err
			}
			if err := OpenColumn32(dir, desc.Name, levelCount, col); err != nil {
				return nil, nil, Catalog{}, err
			}
		case 64:
			col, err := createColumn64(store, desc.Entity, desc.Name, tag)
			if err != nil {
				return nil, nil, Catalog{}, err
			}
			if err := OpenColumn64(dir, desc.Name, levelCount, col); err != nil {
				return nil, nil, Catalog{}, err
			}
		default:
			return nil, nil, Catalog{}, fmt.Errorf("persist: catalog entry %q has unsupported width %d", desc.Name, desc.Width)
		}
	}

	return stack, store, cat, nil
}

func parseTag(s string) (propstore.Tag, error) {
	switch s {
	case propstore.TagInt32.String():
		return propstore.TagInt32, nil
	case propstore.TagInt64.String():
		return propstore.TagInt64, nil
	case propstore.TagFloat.String():
		return propstore.TagFloat, nil
	case propstore.TagDouble.String():
		return propstore.TagDouble, nil
	default:
		return 0, fmt.Errorf("persist: unrecognized column tag %q", s)
	}
}

func createColumn32(store *propstore.Store, entity, name string, tag propstore.Tag) (*propstore.Column32, error) {
	if entity == "node" {
		return store.CreateUninitializedNodeProperty32(name, tag)
	}
	return store.CreateUninitializedEdgeProperty32(name, tag)
}

func createColumn64(store *propstore.Store, entity, name string, tag propstore.Tag) (*propstore.Column64, error) {
	if entity == "node" {
		return store.CreateUninitializedNodeProperty64(name, tag)
	}
	return store.CreateUninitializedEdgeProperty64(name, tag)
}
