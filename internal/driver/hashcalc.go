package driver

import (
	"crypto/sha256"

	"svelab/internal/elab"
	"svelab/internal/project"
	"svelab/internal/project/dag"
	"svelab/internal/source"
)

// definitionDigests hashes every definition together with the digests of
// the definitions it instantiates, walking order leaf first. Definitions
// on a cycle, and those depending on one, keep only their own text hash.
func definitionDigests(comp *elab.Compilation, fs *source.FileSet, deps map[string][]string, order dag.Order) map[string]project.Digest {
	content := make(map[string]project.Digest, len(deps))
	for _, d := range comp.Definitions() {
		if d.Syntax == nil {
			// blackbox: только имя
			content[d.Name] = sha256.Sum256([]byte("blackbox " + d.Name))
			continue
		}
		content[d.Name] = sha256.Sum256([]byte(fs.Text(d.Syntax.Span())))
	}

	out := make(map[string]project.Digest, len(content))
	for _, level := range order.Levels {
		for _, name := range level {
			own, ok := content[name]
			if !ok {
				continue
			}
			children := make([]project.Digest, 0, len(deps[name]))
			for _, dep := range deps[name] {
				if h, ok := out[dep]; ok {
					children = append(children, h)
				}
			}
			out[name] = project.Combine(own, children...)
		}
	}
	for name, h := range content {
		if _, done := out[name]; !done {
			out[name] = h
		}
	}
	return out
}

// designDigest combines file hashes in load order with the overrides.
func designDigest(fs *source.FileSet, files []ParsedFile, params []string) project.Digest {
	hashes := make([]project.Digest, 0, len(files))
	for _, f := range files {
		if f.FileID == noFile {
			continue
		}
		hashes = append(hashes, fs.Get(f.FileID).Hash)
	}
	return project.DesignDigest(hashes, params)
}
