// Package export renders a loaded design hierarchy to offline artifacts:
// a markdown report, and SVG/PNG snapshots of the instance tree.
package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dau-dev/simview/pkg/design"
)

// GenerateMarkdown creates a markdown report of the design hierarchy:
// summary counts, a per-module instantiation table and the full instance
// outline.
func GenerateMarkdown(d *design.Design, title string) (string, error) {
	if len(d.Tops) == 0 {
		return "", fmt.Errorf("design has no top-level instances")
	}
	if strings.TrimSpace(title) == "" {
		title = d.Name
	}
	if strings.TrimSpace(title) == "" {
		title = "Design Hierarchy"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC1123)))

	counts := countKinds(d)
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Instances** | %d |\n", counts.total))
	sb.WriteString(fmt.Sprintf("| Modules | %d |\n", counts.modules))
	sb.WriteString(fmt.Sprintf("| Generate blocks | %d |\n", counts.generates))
	sb.WriteString(fmt.Sprintf("| Tasks / functions | %d |\n", counts.taskFuncs))
	sb.WriteString(fmt.Sprintf("| Other | %d |\n", counts.other))
	sb.WriteString(fmt.Sprintf("| Max depth | %d |\n\n", counts.maxDepth))

	sb.WriteString("## Module Usage\n\n")
	sb.WriteString("| Module | Instances |\n|--------|----------:|\n")
	for _, mu := range moduleUsage(d) {
		sb.WriteString(fmt.Sprintf("| `%s` | %d |\n", mu.name, mu.count))
	}
	sb.WriteString("\n")

	sb.WriteString("## Hierarchy\n\n")
	sb.WriteString("```\n")
	for _, top := range d.Tops {
		writeOutline(&sb, top, 0)
	}
	sb.WriteString("```\n")

	return sb.String(), nil
}

// SaveMarkdown writes the markdown report to a file.
func SaveMarkdown(d *design.Design, path, title string) error {
	content, err := GenerateMarkdown(d, title)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func writeOutline(sb *strings.Builder, inst *design.Instance, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(inst.DisplayName())
	if label := instanceType(inst); label != "" {
		sb.WriteString(" ")
		sb.WriteString(label)
	}
	sb.WriteString("\n")
	for _, sub := range inst.Subs {
		writeOutline(sb, sub, depth+1)
	}
}

// instanceType is the annotation shown next to an instance name, matching
// what the interactive browser renders.
func instanceType(inst *design.Instance) string {
	switch inst.Kind {
	case design.KindModule:
		return design.StripWorklib(inst.Module)
	case design.KindGenerate:
		return "[generate]"
	case design.KindTaskFunc:
		return design.StripWorklib(inst.Module)
	default:
		return fmt.Sprintf("%s (type = %d)", design.StripWorklib(inst.Module), inst.RawKind)
	}
}

type kindCounts struct {
	total     int
	modules   int
	generates int
	taskFuncs int
	other     int
	maxDepth  int
}

func countKinds(d *design.Design) kindCounts {
	var c kindCounts
	var walk func(inst *design.Instance, depth int)
	walk = func(inst *design.Instance, depth int) {
		c.total++
		if depth > c.maxDepth {
			c.maxDepth = depth
		}
		switch inst.Kind {
		case design.KindModule:
			c.modules++
		case design.KindGenerate:
			c.generates++
		case design.KindTaskFunc:
			c.taskFuncs++
		default:
			c.other++
		}
		for _, sub := range inst.Subs {
			walk(sub, depth+1)
		}
	}
	for _, top := range d.Tops {
		walk(top, 0)
	}
	return c
}

type moduleCount struct {
	name  string
	count int
}

func moduleUsage(d *design.Design) []moduleCount {
	counts := make(map[string]int)
	var walk func(inst *design.Instance)
	walk = func(inst *design.Instance) {
		if inst.Kind == design.KindModule {
			counts[design.StripWorklib(inst.Module)]++
		}
		for _, sub := range inst.Subs {
			walk(sub)
		}
	}
	for _, top := range d.Tops {
		walk(top)
	}
	out := make([]moduleCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, moduleCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}
