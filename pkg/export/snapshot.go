package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/dau-dev/simview/pkg/design"
)

// SnapshotOptions controls hierarchy snapshot export behaviour.
type SnapshotOptions struct {
	Path     string // output path; format inferred from extension when Format empty
	Format   string // "svg" or "png" (case-insensitive); inferred from Path when empty
	Title    string // optional title; defaults to the design name
	MaxDepth int    // deepest level to render; 0 means everything
	MaxRows  int    // row cap before the outline is elided; 0 means DefaultMaxRows
}

// DefaultMaxRows caps snapshot size for very large designs; deeper content
// is elided with a trailing marker line.
const DefaultMaxRows = 400

// SaveSnapshot renders the instance hierarchy to a static image, styled
// like the interactive view: indented rows, one color per instance kind.
func SaveSnapshot(d *design.Design, opts SnapshotOptions) error {
	if len(d.Tops) == 0 {
		return fmt.Errorf("design has no top-level instances")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	layout := buildSnapshotLayout(d, opts)

	switch format {
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		return renderSVG(opts.Path, layout)
	}
}

// --- layout ----------------------------------------------------------------

type snapshotRow struct {
	Depth int
	Name  string
	Type  string
	Kind  design.Kind
}

type snapshotLayout struct {
	Title   string
	Rows    []snapshotRow
	Elided  int // rows beyond the cap
	Width   int
	Height  int
	Counts  kindCounts
	CharW   int
	RowH    int
	Header  int
	Padding int
}

func buildSnapshotLayout(d *design.Design, opts SnapshotOptions) snapshotLayout {
	const (
		charW   = 7 // basicfont.Face7x13 advance
		rowH    = 16
		header  = 56
		padding = 16
	)

	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	var rows []snapshotRow
	elided := 0
	var walk func(inst *design.Instance, depth int)
	walk = func(inst *design.Instance, depth int) {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return
		}
		if len(rows) >= maxRows {
			elided++
			for _, sub := range inst.Subs {
				walk(sub, depth+1)
			}
			return
		}
		rows = append(rows, snapshotRow{
			Depth: depth,
			Name:  inst.DisplayName(),
			Type:  instanceType(inst),
			Kind:  inst.Kind,
		})
		for _, sub := range inst.Subs {
			walk(sub, depth+1)
		}
	}
	for _, top := range d.Tops {
		walk(top, 0)
	}

	maxLine := 0
	for _, r := range rows {
		n := r.Depth + 1 + len(r.Name) + 1 + len(r.Type)
		if n > maxLine {
			maxLine = n
		}
	}

	width := padding*2 + maxLine*charW
	if width < 480 {
		width = 480
	}
	extra := 0
	if elided > 0 {
		extra = rowH
	}
	height := padding*2 + header + len(rows)*rowH + extra

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = d.Name
	}
	if strings.TrimSpace(title) == "" {
		title = "Design Hierarchy"
	}

	return snapshotLayout{
		Title:   title,
		Rows:    rows,
		Elided:  elided,
		Width:   width,
		Height:  height,
		Counts:  countKinds(d),
		CharW:   charW,
		RowH:    rowH,
		Header:  header,
		Padding: padding,
	}
}

// --- rendering -------------------------------------------------------------

// Snapshot colors mirror the terminal roles on a dark backdrop.
var (
	colorBackdrop = color.RGBA{0x16, 0x18, 0x21, 0xff}
	colorName     = color.RGBA{0xe6, 0xe6, 0xe6, 0xff} // instance names
	colorModule   = color.RGBA{0x56, 0xc8, 0xd8, 0xff} // module types
	colorGenerate = color.RGBA{0x6c, 0x8c, 0xff, 0xff} // generate blocks
	colorTaskFunc = color.RGBA{0xe5, 0xc0, 0x7b, 0xff} // task / function scopes
	colorOther    = color.RGBA{0xc6, 0x78, 0xdd, 0xff} // unclassified kinds
	colorSubtle   = color.RGBA{0x8a, 0x91, 0x99, 0xff}
)

func kindColor(k design.Kind) color.RGBA {
	switch k {
	case design.KindModule:
		return colorModule
	case design.KindGenerate:
		return colorGenerate
	case design.KindTaskFunc:
		return colorTaskFunc
	default:
		return colorOther
	}
}

func renderPNG(path string, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	pad := float64(layout.Padding)
	dc.SetColor(colorName)
	dc.DrawStringAnchored(layout.Title, pad, pad+10, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(summaryLine(layout.Counts), pad, pad+30, 0, 0.5)

	y := pad + float64(layout.Header)
	for _, r := range layout.Rows {
		x := pad + float64(r.Depth*layout.CharW)
		dc.SetColor(colorName)
		dc.DrawStringAnchored(r.Name, x, y+6, 0, 0.5)
		if r.Type != "" {
			tx := x + float64((len(r.Name)+1)*layout.CharW)
			dc.SetColor(kindColor(r.Kind))
			dc.DrawStringAnchored(r.Type, tx, y+6, 0, 0.5)
		}
		y += float64(layout.RowH)
	}
	if layout.Elided > 0 {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(fmt.Sprintf("... %d more instances", layout.Elided), pad, y+6, 0, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSVG(path string, layout snapshotLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	pad := layout.Padding
	canvas.Text(pad, pad+14, layout.Title,
		fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(colorName)))
	canvas.Text(pad, pad+34, summaryLine(layout.Counts),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	y := pad + layout.Header
	for _, r := range layout.Rows {
		x := pad + r.Depth*layout.CharW
		canvas.Text(x, y+10, r.Name,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorName)))
		if r.Type != "" {
			tx := x + (len(r.Name)+1)*layout.CharW
			canvas.Text(tx, y+10, r.Type,
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(kindColor(r.Kind))))
		}
		y += layout.RowH
	}
	if layout.Elided > 0 {
		canvas.Text(pad, y+10, fmt.Sprintf("... %d more instances", layout.Elided),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

func summaryLine(c kindCounts) string {
	return fmt.Sprintf("%d instances  %d modules  %d generates  max depth %d",
		c.total, c.modules, c.generates, c.maxDepth)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
