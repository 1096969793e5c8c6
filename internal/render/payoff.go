package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"cryptoscholar/internal/payoff"
)

const (
	chartWidth   = 400
	chartHeight  = 240
	chartPadding = 24
)

var figureTemplate = template.Must(template.New("payoff").Parse(
	`<figure class="payoff-chart" data-highlight-skip data-strategy="{{.Strategy}}" data-payoff="{{.JSON}}">` +
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="{{.Title}}">` +
		`{{if .HasZero}}<line class="payoff-zero" x1="{{.Left}}" y1="{{.ZeroY}}" x2="{{.Right}}" y2="{{.ZeroY}}" stroke="#94a3b8" stroke-dasharray="4 4"/>{{end}}` +
		`<polyline class="payoff-line" fill="none" stroke="#60a5fa" stroke-width="2" points="{{.Points}}"/>` +
		`</svg>` +
		`<figcaption>{{.Title}}</figcaption>` +
		`</figure>` + "\n"))

type figureData struct {
	Strategy      payoff.Strategy
	Title         string
	JSON          string
	Points        string
	Width, Height int
	Left, Right   int
	HasZero       bool
	ZeroY         string
}

// payoffBlockRenderer replaces strategy code blocks with payoff charts and
// renders every other fenced block as a plain code block.
type payoffBlockRenderer struct{}

func (p *payoffBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, p.renderFencedCodeBlock)
}

func (p *payoffBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	language := string(n.Language(source))
	content := blockContent(n, source)

	if payoff.IsMarkerBlock(language, content) {
		if params, err := payoff.Parse(content); err == nil {
			if err := writeFigure(w, payoff.Compute(params)); err != nil {
				return ast.WalkStop, err
			}
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString("<pre><code")
	if language != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(language)))
		_, _ = w.WriteString(`"`)
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML([]byte(content)))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func blockContent(n *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}

// FigureHTML renders the chart of c as an HTML figure.
func FigureHTML(c payoff.Chart) (string, error) {
	var buf bytes.Buffer
	if err := writeFigure(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeFigure(w io.Writer, c payoff.Chart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode payoff chart: %w", err)
	}

	lo, hi := c.Range()
	fd := figureData{
		Strategy: c.Strategy,
		Title:    c.Title,
		JSON:     string(data),
		Width:    chartWidth,
		Height:   chartHeight,
		Left:     chartPadding,
		Right:    chartWidth - chartPadding,
	}

	toY := func(v float64) float64 {
		if hi == lo {
			return chartHeight / 2
		}
		return chartPadding + (hi-v)/(hi-lo)*(chartHeight-2*chartPadding)
	}

	if n := len(c.Points); n > 0 {
		minPrice, maxPrice := c.Points[0].Price, c.Points[n-1].Price
		pts := make([]string, n)
		for i, pt := range c.Points {
			x := float64(chartPadding)
			if maxPrice > minPrice {
				x += (pt.Price - minPrice) / (maxPrice - minPrice) * (chartWidth - 2*chartPadding)
			}
			pts[i] = fmt.Sprintf("%.1f,%.1f", x, toY(pt.Payoff))
		}
		fd.Points = strings.Join(pts, " ")
		if lo <= 0 && hi >= 0 {
			fd.HasZero = true
			fd.ZeroY = fmt.Sprintf("%.1f", toY(0))
		}
	}

	if err := figureTemplate.Execute(w, fd); err != nil {
		return fmt.Errorf("failed to render payoff chart: %w", err)
	}
	return nil
}
