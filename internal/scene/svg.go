package scene

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteSVG serializes the visible marks of s as a standalone SVG document.
func WriteSVG(w io.Writer, s *Surface) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" class="vis-area">`+"\n",
		num(s.OuterWidth()), num(s.OuterHeight()))
	if s.Root != nil && s.Root.Visible() {
		for _, c := range s.Root.children {
			writeNode(bw, c, 1)
		}
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node, depth int) {
	if n.HasClass(ClassDeactivated) || n.HasClass(ClassHidden) {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case KindGroup:
		fmt.Fprintf(w, "%s<g%s", indent, classAttr(n))
		if n.TranslateX != 0 || n.TranslateY != 0 {
			fmt.Fprintf(w, ` transform="translate(%s,%s)"`, num(n.TranslateX), num(n.TranslateY))
		}
		writePaint(w, n)
		w.WriteString(">\n")
		for _, c := range n.children {
			writeNode(w, c, depth+1)
		}
		fmt.Fprintf(w, "%s</g>\n", indent)
	case KindRect:
		fmt.Fprintf(w, `%s<rect%s x="%s" y="%s" width="%s" height="%s"`, indent, classAttr(n),
			num(n.X), num(n.Y), num(n.Width), num(n.Height))
		writePaint(w, n)
		w.WriteString("/>\n")
	case KindLine:
		fmt.Fprintf(w, `%s<line%s x1="%s" y1="%s" x2="%s" y2="%s"`, indent, classAttr(n),
			num(n.X), num(n.Y), num(n.X2), num(n.Y2))
		writePaint(w, n)
		w.WriteString("/>\n")
	case KindText:
		fmt.Fprintf(w, `%s<text%s x="%s" y="%s"`, indent, classAttr(n), num(n.X), num(n.Y))
		if n.Anchor != "" {
			fmt.Fprintf(w, ` text-anchor="%s"`, n.Anchor)
		}
		writePaint(w, n)
		w.WriteString(">")
		xml.EscapeText(w, []byte(n.Text))
		w.WriteString("</text>\n")
	}
}

func writePaint(w *bufio.Writer, n *Node) {
	if n.Fill != "" {
		fmt.Fprintf(w, ` fill="%s"`, n.Fill)
	}
	if n.Stroke != "" {
		fmt.Fprintf(w, ` stroke="%s"`, n.Stroke)
	}
	if n.StrokeWidth > 0 {
		fmt.Fprintf(w, ` stroke-width="%s"`, num(n.StrokeWidth))
	}
	if n.Dash != "" {
		fmt.Fprintf(w, ` stroke-dasharray="%s"`, n.Dash)
	}
	if n.Opacity < 1 {
		fmt.Fprintf(w, ` opacity="%s"`, num(n.Opacity))
	}
}

func classAttr(n *Node) string {
	if len(n.classes) == 0 {
		return ""
	}
	names := n.Classes()
	sort.Strings(names)
	return ` class="` + strings.Join(names, " ") + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
