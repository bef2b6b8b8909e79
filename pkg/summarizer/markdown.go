package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Layout Summary"))

	// Source
	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	f.tableHeader(&b)
	f.row(&b, "Directory", s.Source.Dir)
	f.row(&b, "Images", fmt.Sprintf("%d", s.Source.ItemCount))
	if len(s.Source.Unreadable) > 0 {
		f.row(&b, "Unreadable", strings.Join(s.Source.Unreadable, ", "))
	}
	b.WriteString("\n")

	// Settings
	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.tableHeader(&b)
	if s.Settings.Preset != "" {
		f.row(&b, "Preset", s.Settings.Preset)
	}
	f.row(&b, "Mode", s.Settings.Mode)
	f.row(&b, "Container Width", formatPx(s.Settings.ContainerWidth))
	f.row(&b, "Gap", formatPx(s.Settings.Gap))
	f.row(&b, "Target Row Height", formatPx(s.Settings.TargetRowHeight))
	f.row(&b, "Max Row Height", formatPx(s.Settings.MaxRowHeight))
	b.WriteString("\n")

	// Layout
	fmt.Fprintf(&b, "## %s\n\n", t("Layout"))
	f.tableHeader(&b)
	f.row(&b, "Placements", fmt.Sprintf("%d", s.Layout.Placements))
	f.row(&b, "Total Height", formatPx(s.Layout.Height))
	if s.Layout.Columns > 0 {
		f.row(&b, "Columns", fmt.Sprintf("%d", s.Layout.Columns))
	}
	b.WriteString("\n")

	if len(s.Layout.Rows) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", t("Rows"))
		fmt.Fprintf(&b, "| # | %s | %s | %s | %s |\n", t("Items"), t("Height"), t("Scale"), t("Notes"))
		b.WriteString("|---:|---:|---:|---:|---|\n")
		for i, row := range s.Layout.Rows {
			fmt.Fprintf(&b, "| %d | %d | %s | %.3f | %s |\n", i+1, row.Items, formatPx(row.Height), row.Scale, f.rowNotes(row))
		}
		b.WriteString("\n")
	}

	if len(s.Layout.Dropped) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", t("Dropped Items"))
		for _, ref := range s.Layout.Dropped {
			fmt.Fprintf(&b, "- %s\n", ref)
		}
		b.WriteString("\n")
	}

	// Output
	if s.Output.LayoutPath != "" || s.Output.PreviewPath != "" {
		fmt.Fprintf(&b, "## %s\n\n", t("Output"))
		f.tableHeader(&b)
		if s.Output.LayoutPath != "" {
			f.row(&b, "Layout File", fmt.Sprintf("%s (%s)", s.Output.LayoutPath, formatBytes(s.Output.LayoutSize)))
		}
		if s.Output.PreviewPath != "" {
			f.row(&b, "Preview", s.Output.PreviewPath)
			f.row(&b, "Placeholders", fmt.Sprintf("%d", s.Output.Placeholders))
		}
		if s.Output.DurationMs > 0 {
			f.row(&b, "Duration", fmt.Sprintf("%d ms", s.Output.DurationMs))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	generated := s.GeneratedAt.Format("2006-01-02 15:04:05 MST")
	if f.version != "" {
		fmt.Fprintf(&b, "%s jgallery %s, %s\n", t("Generated by"), f.version, generated)
	} else {
		fmt.Fprintf(&b, "%s jgallery, %s\n", t("Generated by"), generated)
	}

	return b.String()
}

func (f *MarkdownFormatter) tableHeader(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func (f *MarkdownFormatter) rowNotes(row RowInfo) string {
	var notes []string
	if row.Last {
		notes = append(notes, f.translate("last"))
	}
	if row.Saturated {
		notes = append(notes, f.translate("saturated"))
	}
	return strings.Join(notes, ", ")
}

func formatPx(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d px", int64(v))
	}
	return fmt.Sprintf("%.2f px", v)
}

// formatBytes formats a byte count using binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
