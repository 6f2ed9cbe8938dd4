package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/pkg/page"
)

// Node is one page of the exported sequence.
type Node struct {
	Key    string
	Title  string
	Fields []string
}

// Sequence is a form reduced to what the diagram needs.
type Sequence struct {
	Name   string
	Labels pagedform.Labels
	Nodes  []Node
}

// Overlay highlights pages on the diagram.
type Overlay struct {
	Visited []string
	Current string
}

// FromBlueprint builds the sequence of a blueprint. Field names are listed
// for pages built with the page package.
func FromBlueprint(bp *pagedform.Blueprint) (Sequence, error) {
	ctrl, err := bp.Controller()
	if err != nil {
		return Sequence{}, err
	}
	seq := Sequence{Name: ctrl.Name(), Labels: ctrl.Labels()}
	specs := bp.Pages()
	for i, p := range ctrl.Pages() {
		n := Node{Key: p.Key(), Title: specs[i].Title}
		if fp, ok := p.(*page.Page); ok {
			if n.Title == "" {
				n.Title = fp.Title()
			}
			for _, f := range fp.Fields() {
				n.Fields = append(n.Fields, f.Name)
			}
		}
		seq.Nodes = append(seq.Nodes, n)
	}
	return seq, nil
}

// GenerateMermaid renders the page sequence as a Mermaid flowchart: forward
// edges carry the continue label, backward edges the back label, and the last
// page leads to the completion node.
func GenerateMermaid(seq Sequence, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", startID, escape(seq.Name))

	for _, n := range seq.Nodes {
		label := n.Key
		if n.Title != "" {
			label = n.Title
		}
		if len(n.Fields) > 0 {
			label += "<br/><small>" + strings.Join(n.Fields, ", ") + "</small>"
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(n.Key), escape(label))
	}
	fmt.Fprintf(&sb, "    %s(((\"complete\")))\n", doneID)

	if len(seq.Nodes) > 0 {
		fmt.Fprintf(&sb, "    %s --> %s\n", startID, sanitizeMermaidID(seq.Nodes[0].Key))
	}
	for i, n := range seq.Nodes {
		from := sanitizeMermaidID(n.Key)
		if i == len(seq.Nodes)-1 {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, escape(seq.Labels.Final), doneID)
			continue
		}
		to := sanitizeMermaidID(seq.Nodes[i+1].Key)
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, escape(seq.Labels.Continue), to)
		fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", to, escape(seq.Labels.Back), from)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, key := range overlay.Visited {
			id := sanitizeMermaidID(key)
			if id != "" && !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}
	return sb.String()
}

const (
	startID = "__start"
	doneID  = "__complete"
)

// escape keeps labels inside their double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", ":", "_").Replace(id)
}
