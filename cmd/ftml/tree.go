package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/x/ftml"
)

func newTreeCmd(_ *ftml.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file.ftml>",
		Short: "Browse a parsed FTML document as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTree(args[0])
		},
	}
}

func runTree(arg string) error {
	data, err := readInput(arg)
	if err != nil {
		return err
	}

	src := string(data)

	doc, parseErrs := ftml.Load(src)
	if len(parseErrs) > 0 {
		return fmt.Errorf("%s:\n%s", arg, ftml.FormatErrors(parseErrs, src))
	}

	root := buildTreeNode(doc)

	m := &treeModel{
		root:      root,
		collapsed: make(map[*treeNode]bool),
		path:      arg,
	}
	m.refresh()

	_, err = tea.NewProgram(m).Run()

	return err
}

// treeNode is a single row of the browseable tree: either a root document,
// a key-value member, or an indexed list element.
type treeNode struct {
	label    string
	children []*treeNode
}

func buildTreeNode(doc *ftml.Document) *treeNode {
	root := &treeNode{label: "(document)"}
	for _, kv := range doc.Items() {
		root.children = append(root.children, buildKeyValueNode(kv))
	}

	return root
}

func buildKeyValueNode(kv *ftml.KeyValue) *treeNode {
	n := &treeNode{label: kv.Key}
	describeValue(n, kv.Value)

	return n
}

func describeValue(n *treeNode, v ftml.ValueNode) {
	switch vv := v.(type) {
	case *ftml.Scalar:
		n.label += ": " + scalarLabel(vv.Value)
	case *ftml.Object:
		n.label += ": {" + strconv.Itoa(len(vv.Items())) + "}"
		for _, kv := range vv.Items() {
			n.children = append(n.children, buildKeyValueNode(kv))
		}
	case *ftml.List:
		n.label += ": [" + strconv.Itoa(len(vv.Items)) + "]"
		for i, item := range vv.Items {
			c := &treeNode{label: "[" + strconv.Itoa(i) + "]"}
			describeValue(c, item)
			n.children = append(n.children, c)
		}
	}
}

func scalarLabel(sv ftml.ScalarValue) string {
	switch sv.Kind {
	case ftml.ScalarString, ftml.ScalarSingleString:
		return strconv.Quote(sv.Str)
	case ftml.ScalarInt:
		return strconv.FormatInt(sv.Int, 10)
	case ftml.ScalarFloat:
		return strconv.FormatFloat(sv.Float, 'g', -1, 64)
	case ftml.ScalarBool:
		return strconv.FormatBool(sv.Bool)
	case ftml.ScalarNull:
		return "null"
	default:
		return "?"
	}
}

// flatRow is one visible line of the tree, with its source node and
// indentation depth.
type flatRow struct {
	node  *treeNode
	depth int
}

// treeModel is the bubbletea model for the "tree" subcommand: a
// collapsible outline view over a parsed document's value tree.
type treeModel struct {
	root      *treeNode
	collapsed map[*treeNode]bool
	visible   []flatRow
	cursor    int
	width     int
	height    int
	path      string
}

func (m *treeModel) refresh() {
	m.visible = m.visible[:0]
	for _, c := range m.root.children {
		m.appendRow(c, 0)
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *treeModel) appendRow(n *treeNode, depth int) {
	m.visible = append(m.visible, flatRow{node: n, depth: depth})

	if len(n.children) > 0 && !m.collapsed[n] {
		for _, c := range n.children {
			m.appendRow(c, depth+1)
		}
	}
}

func (m *treeModel) Init() tea.Cmd { return nil }

func (m *treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "left", "h":
			if row := m.current(); row != nil && len(row.node.children) > 0 {
				m.collapsed[row.node] = true
				m.refresh()
			}
		case "right", "l", "enter":
			if row := m.current(); row != nil && len(row.node.children) > 0 {
				m.collapsed[row.node] = false
				m.refresh()
			}
		}
	}

	return m, nil
}

func (m *treeModel) current() *flatRow {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}

	return &m.visible[m.cursor]
}

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

func (m *treeModel) View() tea.View {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render(m.path))

	for i, row := range m.visible {
		marker := "  "

		if len(row.node.children) > 0 {
			if m.collapsed[row.node] {
				marker = "▸ "
			} else {
				marker = "▾ "
			}
		}

		line := strings.Repeat("  ", row.depth) + marker + row.node.label

		if i == m.cursor {
			line = cursorStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\n↑/↓ move · ←/→ collapse/expand · q quit\n")

	v := tea.NewView(b.String())
	v.AltScreen = true

	return v
}
