package tree

import (
	"fmt"
	"strings"
)

// Format renders t as an indented outline for debugging and CLI output.
func Format(t Tree) string {
	var sb strings.Builder
	printRecursive(&sb, t, 0)
	return sb.String()
}

// Bracketed renders t on one line, e.g. (clause_marked_subject (subject ...) ...).
// Two trees with the same shape, labels and words give the same string.
func Bracketed(t Tree) string {
	var sb strings.Builder
	writeBracketed(&sb, t)
	return sb.String()
}

func printRecursive(sb *strings.Builder, t Tree, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n := t.(type) {
	case *Leaf:
		fmt.Fprintf(sb, "%s%s %q\n", indent, n.Label, n.Word.Text)
		if n.Aux != nil {
			printRecursive(sb, n.Aux, depth+1)
		}
	case *Branch:
		fmt.Fprintf(sb, "%s%s\n", indent, n.Label)
		printRecursive(sb, n.Left, depth+1)
		printRecursive(sb, n.Right, depth+1)
	case *Labelled:
		fmt.Fprintf(sb, "%s%s\n", indent, n.Label)
		printRecursive(sb, n.Inner, depth+1)
	case *Rose:
		fmt.Fprintf(sb, "%s%s\n", indent, n.Label)
		for _, c := range n.Children {
			printRecursive(sb, c, depth+1)
		}
	default:
		panic(fmt.Sprintf("tree: unexpected node %T", t))
	}
}

func writeBracketed(sb *strings.Builder, t Tree) {
	sb.WriteByte('(')
	switch n := t.(type) {
	case *Leaf:
		fmt.Fprintf(sb, "%s %q", n.Label, n.Word.Text)
		if n.Aux != nil {
			sb.WriteString(" +")
			writeBracketed(sb, n.Aux)
		}
	case *Branch:
		sb.WriteString(string(n.Label))
		sb.WriteByte(' ')
		writeBracketed(sb, n.Left)
		sb.WriteByte(' ')
		writeBracketed(sb, n.Right)
	case *Labelled:
		sb.WriteString(string(n.Label))
		sb.WriteString(" ")
		writeBracketed(sb, n.Inner)
	case *Rose:
		sb.WriteString(string(n.Label))
		sb.WriteString(" [")
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeBracketed(sb, c)
		}
		sb.WriteByte(']')
	default:
		panic(fmt.Sprintf("tree: unexpected node %T", t))
	}
	sb.WriteByte(')')
}
