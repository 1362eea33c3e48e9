package autoload

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stackb/starlark-autoload/pkg/binding"
)

// Snapshot describes the state of the loader: its roots, the names pending
// and the names loaded so far.
func (l *Loader) Snapshot() (*structpb.Struct, error) {
	l.mu.Lock()
	state := l.state
	l.mu.Unlock()

	roots := make([]interface{}, 0)
	for _, root := range l.Roots() {
		roots = append(roots, map[string]interface{}{
			"dir":       root.Dir,
			"namespace": root.Namespace.Name(),
		})
	}

	loaded := make([]interface{}, 0)
	for _, rec := range l.registry.Ledger() {
		loaded = append(loaded, map[string]interface{}{
			"name": rec.Name,
			"kind": rec.Kind.String(),
			"path": rec.Path,
			"dir":  rec.Dir,
			"type": rec.Value.Type(),
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"tag":       l.tag,
		"state":     state.String(),
		"roots":     roots,
		"pending":   bindingList(l.registry.Pending()),
		"attempted": bindingList(l.registry.Attempts()),
		"loaded":    loaded,
	})
}

func bindingList(bindings []*binding.Binding) []interface{} {
	list := make([]interface{}, 0, len(bindings))
	for _, b := range bindings {
		list = append(list, map[string]interface{}{
			"name": b.Name,
			"kind": b.Kind.String(),
			"path": b.Path,
			"dir":  b.Dir,
		})
	}
	return list
}

// SnapshotJSON returns the snapshot as indented JSON.
func (l *Loader) SnapshotJSON() ([]byte, error) {
	snapshot, err := l.Snapshot()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(snapshot)
}
