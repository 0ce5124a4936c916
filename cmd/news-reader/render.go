package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// Ширины колонок таблицы статей в ячейках терминала.
const (
	widthTitle  = 60
	widthAuthor = 24
	widthSource = 20
	widthDate   = 22
	widthURL    = 60
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#C98A00", Dark: "#F2C94C"}
)

// articleView — статья в машинном выводе (json/yaml).
type articleView struct {
	models.Article `yaml:",inline"`
	Published      string `json:"published,omitempty" yaml:"published,omitempty"`
}

// fetchView — результат fetch в машинном выводе.
type fetchView struct {
	Articles     []articleView `json:"articles"                yaml:"articles"`
	TotalResults int           `json:"total_results"           yaml:"total_results"`
	Origin       models.Origin `json:"origin"                  yaml:"origin"`
	StaleReason  string        `json:"stale_reason,omitempty"  yaml:"stale_reason,omitempty"`
}

type bookmarkView struct {
	URL        string `json:"url"        yaml:"url"`
	Bookmarked bool   `json:"bookmarked" yaml:"bookmarked"`
}

func toViews(items []models.Article) []articleView {
	out := make([]articleView, 0, len(items))
	for _, a := range items {
		out = append(out, articleView{Article: a, Published: a.FormattedDate()})
	}
	return out
}

func renderFetch(w io.Writer, format string, res models.FetchResult) error {
	view := fetchView{
		Articles:     toViews(res.Articles),
		TotalResults: res.TotalResults,
		Origin:       res.Origin,
		StaleReason:  remote.Reason(res.Reason),
	}

	if format != outputTable {
		return encode(w, format, view)
	}

	if err := writeArticleTable(w, res.Articles); err != nil {
		return err
	}

	r := lipgloss.NewRenderer(w)
	footer := fmt.Sprintf("%d of %d, origin: %s", len(res.Articles), res.TotalResults, res.Origin)
	style := r.NewStyle().Foreground(colorDim)
	if res.Stale() {
		footer += " (offline: " + view.StaleReason + ")"
		style = r.NewStyle().Foreground(colorWarn)
	}

	_, err := fmt.Fprintln(w, style.Render(footer))
	return err
}

func renderArticles(w io.Writer, format string, items []models.Article) error {
	if format != outputTable {
		return encode(w, format, map[string][]articleView{"articles": toViews(items)})
	}

	return writeArticleTable(w, items)
}

func renderBookmarked(w io.Writer, format, url string, on bool) error {
	view := bookmarkView{URL: url, Bookmarked: on}
	if format != outputTable {
		return encode(w, format, view)
	}

	state := "removed"
	if on {
		state = "bookmarked"
	}

	r := lipgloss.NewRenderer(w)
	_, err := fmt.Fprintf(w, "%s %s\n", r.NewStyle().Bold(true).Foreground(colorAccent).Render(state), url)
	return err
}

func renderStats(w io.Writer, format string, st models.CacheStats) error {
	if format != outputTable {
		return encode(w, format, st)
	}

	return writeTable(w, []string{"CACHED", "BOOKMARKED"}, [][]string{
		{strconv.Itoa(st.Cached), strconv.Itoa(st.Bookmarked)},
	}, nil)
}

func renderStatus(w io.Writer, format string, st statusView) error {
	if format != outputTable {
		return encode(w, format, st)
	}

	online := "offline"
	if st.Online {
		online = "online"
	}

	return writeTable(w, []string{"REMOTE", "STORE", "NETWORK", "CONNECTION"}, [][]string{
		{st.Remote, st.Store, online, st.Connection},
	}, nil)
}

// encode пишет v в json (с отступами) или yaml.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeArticleTable(w io.Writer, items []models.Article) error {
	if len(items) == 0 {
		r := lipgloss.NewRenderer(w)
		_, err := fmt.Fprintln(w, r.NewStyle().Foreground(colorDim).Render("no articles"))
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			a.Title,
			a.DisplayAuthor(),
			a.Source.Name,
			a.FormattedDate(),
			a.URL,
		})
	}

	return writeTable(w,
		[]string{"TITLE", "AUTHOR", "SOURCE", "PUBLISHED", "URL"},
		rows,
		[]int{widthTitle, widthAuthor, widthSource, widthDate, widthURL},
	)
}

// writeTable выравнивает колонки по ширине отображения (CJK и эмодзи
// занимают две ячейки) и обрезает ячейки длиннее limits[i].
// limits == nil — без обрезки.
func writeTable(w io.Writer, header []string, rows [][]string, limits []int) error {
	cells := make([][]string, 0, len(rows))
	widths := make([]int, len(header))

	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}

	for _, row := range rows {
		line := make([]string, len(header))
		for i := range header {
			if i >= len(row) {
				continue
			}

			v := strings.Join(strings.Fields(row[i]), " ")
			if limits != nil && limits[i] > 0 {
				v = runewidth.Truncate(v, limits[i], "…")
			}

			line[i] = v
			widths[i] = max(widths[i], runewidth.StringWidth(v))
		}
		cells = append(cells, line)
	}

	r := lipgloss.NewRenderer(w)
	headStyle := r.NewStyle().Bold(true).Foreground(colorAccent)

	var sb strings.Builder

	writeRow := func(line []string, style *lipgloss.Style) {
		for i, v := range line {
			if i < len(line)-1 {
				v = runewidth.FillRight(v, widths[i])
			}
			if style != nil {
				v = style.Render(v)
			}

			sb.WriteString(v)
			if i < len(line)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header, &headStyle)
	for _, line := range cells {
		writeRow(line, nil)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
