package menu

// RenderOptions controls row layout.
type RenderOptions struct {
	Width     int
	NameWidth int
	Icons     bool
}

// DefaultRenderOptions matches the default panel size.
var DefaultRenderOptions = RenderOptions{Width: 60, NameWidth: 24}

// RenderedRow is one formatted line handed to the host.
type RenderedRow struct {
	Formatted
	Kind       RowKind
	Selectable bool
}

// Render formats every row of the model.
func (lm *LineModel) Render(opts RenderOptions) []RenderedRow {
	gutter := ""
	if lm.hasCodes() {
		gutter = "  "
	}

	out := make([]RenderedRow, 0, len(lm.Rows))
	for _, r := range lm.Rows {
		var f Formatted
		switch r.Kind {
		case RowFile:
			code := gutter
			if r.DiffCode != "" {
				code = r.DiffCode
			}
			icon := ""
			if opts.Icons {
				icon = IconFor(r.Record.Path)
			}
			f = Format(r.Record.Path, r.Record.Kind, opts.Width, opts.NameWidth, code, icon)
		case RowCategory:
			f = formatCategory(r.Section, r.Count, opts.Width)
		case RowHeader:
			f = formatText(r.Text, HighlightHeader, opts.Width)
		case RowInfo:
			f = formatText(r.Text, HighlightInfo, opts.Width)
		case RowSeparator:
			f = formatText("", HighlightInfo, opts.Width)
		}
		out = append(out, RenderedRow{Formatted: f, Kind: r.Kind, Selectable: r.Selectable()})
	}
	return out
}
