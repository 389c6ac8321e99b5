package export

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dusk-indust/importgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph LR diagram from a graph store.
// Files are grouped by top-level directory; modules sit outside any group;
// IMPORTS edges become arrows.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	files, err := store.AllFiles(ctx)
	if err != nil {
		return "", fmt.Errorf("get files: %w", err)
	}
	edges, err := store.AllImports(ctx)
	if err != nil {
		return "", fmt.Errorf("get edges: %w", err)
	}

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}
	fileKey := func(p string) string { return "file:" + p }
	moduleKey := func(m string) string { return "module:" + m }

	groups := make(map[string][]string)
	for _, f := range files {
		dir := topDir(f)
		groups[dir] = append(groups[dir], f)
	}
	dirs := make([]string, 0, len(groups))
	for d := range groups {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, d := range dirs {
		members := groups[d]
		if d == "" {
			for _, f := range members {
				sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(fileKey(f)), escape(f)))
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID("dir:"+d), escape(d)))
		for _, f := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(fileKey(f)), escape(shortPath(f))))
		}
		sb.WriteString("  end\n")
	}

	seen := make(map[string]bool)
	for _, e := range edges {
		if seen[e.Module] {
			continue
		}
		seen[e.Module] = true
		sb.WriteString(fmt.Sprintf("  %s([\"%s\"])\n", getID(moduleKey(e.Module)), escape(e.Module)))
	}

	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(fileKey(e.File)), getID(moduleKey(e.Module))))
	}

	return sb.String(), nil
}

// topDir returns the first path segment of a slash-separated file path, or
// "" for files at the root.
func topDir(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// shortPath returns the last 2 path segments for readability.
func shortPath(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) <= 2 {
		return p
	}
	return path.Join(parts[len(parts)-2:]...)
}

// escape keeps labels from closing the quoted Mermaid string.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
