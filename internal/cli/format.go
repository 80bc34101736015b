package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/buger/goterm"
	colorPkg "github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/filter"
	"github.com/studiowebux/blogdesk/internal/history"
	"github.com/studiowebux/blogdesk/internal/mock"
	"github.com/studiowebux/blogdesk/internal/types"
	"gopkg.in/yaml.v3"
)

const fallbackWidth = 80

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func filterPosts(posts types.Posts, authors []string, search string) types.Posts {
	posts = filter.ByAuthor(posts, authors)
	return filter.Fuzzy(posts, search)
}

// checkQuery rejects a malformed --query before any request is made
func checkQuery(query string) error {
	if query != "" && !filter.IsValidJMESPath(query) {
		return fmt.Errorf("invalid JMESPath expression %q", query)
	}
	return nil
}

func printPosts(env *Env, posts types.Posts, query string) error {
	if posts == nil {
		posts = types.Posts{}
	}

	if query != "" {
		data, err := json.Marshal(posts)
		if err != nil {
			return fmt.Errorf("failed to encode posts: %w", err)
		}
		out, err := filter.Apply(string(data), query)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Out, out)
		return nil
	}

	switch env.Format {
	case "json":
		return writeJSON(env.Out, posts)
	case "yaml":
		return writeYAML(env.Out, posts)
	default:
		p := newTextPrinter(env.Color)
		p.PrintPosts(env.Out, posts)
		return nil
	}
}

func printPost(env *Env, post types.Post) error {
	switch env.Format {
	case "json":
		return writeJSON(env.Out, post)
	case "yaml":
		return writeYAML(env.Out, post)
	default:
		p := newTextPrinter(env.Color)
		p.printVerticalLine(env.Out)
		p.PrintPost(env.Out, post, true)
		p.printVerticalLine(env.Out)
		return nil
	}
}

func printActivity(env *Env, entries []types.ActivityEntry) error {
	switch env.Format {
	case "json":
		return writeJSON(env.Out, entries)
	case "yaml":
		return writeYAML(env.Out, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(env.ErrOut, "No activity recorded.")
		return nil
	}

	p := newTextPrinter(env.Color)
	for _, e := range entries {
		status := p.statusColor(e.Status, e.Error != "").Sprintf("%3d", e.Status)
		if e.Status == 0 {
			status = p.red.Sprint("ERR")
		}
		fmt.Fprintf(env.Out, "%s %s %-6s %s %s %s\n",
			p.subtle.Sprint(e.Timestamp),
			status,
			e.Method,
			e.URL,
			p.subtle.Sprint(client.FormatDuration(e.Duration)),
			p.subtle.Sprint(e.Profile),
		)
		if e.Error != "" {
			p.red.Fprintf(env.Out, "    %s\n", e.Error)
		}
	}
	return nil
}

// printStats prints one row per operation
func printStats(env *Env, stats []history.Stats) error {
	switch env.Format {
	case "json":
		return writeJSON(env.Out, stats)
	case "yaml":
		return writeYAML(env.Out, stats)
	}

	if len(stats) == 0 {
		fmt.Fprintln(env.ErrOut, "No activity recorded.")
		return nil
	}

	table := goterm.NewTable(0, 8, 2, ' ', 0)
	fmt.Fprintln(table, "OPERATION\tCALLS\tOK\tFAILED\tNETWORK\tAVG\tMIN\tMAX\tSTATUS CODES\tLAST")
	for _, s := range stats {
		fmt.Fprintf(table, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Operation,
			s.TotalCalls,
			s.SuccessCount,
			s.ErrorCount,
			s.NetworkErrors,
			client.FormatDuration(int64(s.AvgDurationMs)),
			client.FormatDuration(s.MinDurationMs),
			client.FormatDuration(s.MaxDurationMs),
			formatStatusCodes(s.StatusCodes),
			s.LastCalled,
		)
	}
	fmt.Fprint(env.Out, table.String())
	return nil
}

// printRequestLog prints the mock backend's request log as a table
func printRequestLog(w io.Writer, logs []mock.RequestLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No requests served.")
		return
	}

	table := goterm.NewTable(0, 8, 2, ' ', 0)
	fmt.Fprintln(table, "TIME\tMETHOD\tPATH\tSTATUS\tDURATION\tREQUEST ID")
	for _, l := range logs {
		fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\t%s\n",
			l.Timestamp.Format("15:04:05"),
			l.Method,
			l.Path,
			l.Status,
			client.FormatDuration(l.Duration.Milliseconds()),
			l.RequestID,
		)
	}
	fmt.Fprint(w, table.String())
}

// formatStatusCodes renders {200: 3, 404: 1} as "200×3 404×1"
func formatStatusCodes(codes map[int]int) string {
	keys := make([]int, 0, len(codes))
	for code := range codes {
		keys = append(keys, code)
	}
	sort.Ints(keys)

	parts := make([]string, len(keys))
	for i, code := range keys {
		parts[i] = fmt.Sprintf("%d×%d", code, codes[code])
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	fmt.Fprint(w, string(data))
	return nil
}

type textPrinter struct {
	title, author, subtle, red, green, yellow *colorPkg.Color
}

func newTextPrinter(colored bool) *textPrinter {
	p := &textPrinter{
		title:  colorPkg.New(colorPkg.FgCyan, colorPkg.Bold),
		author: colorPkg.New(colorPkg.FgMagenta),
		subtle: colorPkg.New(colorPkg.FgHiBlack),
		red:    colorPkg.New(colorPkg.FgRed),
		green:  colorPkg.New(colorPkg.FgGreen),
		yellow: colorPkg.New(colorPkg.FgYellow),
	}
	for _, c := range []*colorPkg.Color{p.title, p.author, p.subtle, p.red, p.green, p.yellow} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// PrintPosts prints the list pane: a count header, then one block per post
func (p *textPrinter) PrintPosts(w io.Writer, posts types.Posts) {
	fmt.Fprintln(w, p.subtle.Sprint(postCount(len(posts))))
	for _, post := range posts {
		p.printVerticalLine(w)
		p.PrintPost(w, post, false)
	}
	if len(posts) > 0 {
		p.printVerticalLine(w)
	}
}

// PrintPost prints one post; full adds the image line and content
func (p *textPrinter) PrintPost(w io.Writer, post types.Post, full bool) {
	p.subtle.Fprintf(w, "#%s ", post.ID)
	p.title.Fprintln(w, post.Title)
	fmt.Fprintf(w, "By %s • %s\n", p.author.Sprint(post.Author), post.Date)
	if !full {
		return
	}
	if post.HasImage() {
		p.subtle.Fprintf(w, "Image: %s\n", post.AvatarURL())
	}
	fmt.Fprintf(w, "\n%s\n", post.Content)
}

func (p *textPrinter) printVerticalLine(w io.Writer) {
	width := goterm.Width()
	if width <= 0 {
		width = fallbackWidth
	}
	p.subtle.Fprintln(w, strings.Repeat("-", width))
}

func (p *textPrinter) statusColor(status int, failed bool) *colorPkg.Color {
	switch {
	case failed || client.IsClientErrorStatus(status) || client.IsServerErrorStatus(status):
		return p.red
	case client.IsSuccessStatus(status):
		return p.green
	}
	return p.yellow
}

func postCount(n int) string {
	if n == 1 {
		return "1 post"
	}
	return fmt.Sprintf("%d posts", n)
}

// confirm reads a y/N answer; anything but y or yes declines
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, " [y/N]: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// readContent returns value, or all of stdin when value is "-"
func readContent(in io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read content from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
