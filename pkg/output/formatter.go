package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/ritzau/movie-graph/pkg/analysis"
)

// Namer resolves display names for movies and genres
type Namer interface {
	Title(id string) string
	GenreName(id int) string
}

// TitleFunc maps a node id to a display name
type TitleFunc func(id string) string

type idNamer struct{}

func (idNamer) Title(id string) string { return id }
func (idNamer) GenreName(id int) string { return strconv.Itoa(id) }

// PrintReport prints a nicely formatted analysis report with colors.
// A nil namer prints raw ids.
func PrintReport(w io.Writer, report *analysis.Report, names Namer) {
	if names == nil {
		names = idNamer{}
	}
	title := TitleFunc(names.Title)

	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	// Header
	bold.Fprintln(w, "Movie Graph - Analysis Report")
	bold.Fprintln(w, "=============================")

	if report.Empty() {
		yellow.Fprintln(w, "No movies to analyze")
		return
	}

	fmt.Fprintf(w, "Movies: %d\n", len(report.Graph.Nodes))
	fmt.Fprintf(w, "Similarity edges: %d\n", len(report.Graph.Edges))

	if report.Connected {
		green.Fprintln(w, "Connected: yes")
	} else {
		yellow.Fprintf(w, "Connected: no (%d components)\n", len(report.Components))
	}
	fmt.Fprintln(w)

	cyan.Fprintf(w, "Start: %s\n", title(report.Start))
	fmt.Fprintf(w, "  DFS: %s\n", joinTitles(report.DFS, title))
	fmt.Fprintf(w, "  BFS: %s\n", joinTitles(report.BFS, title))
	fmt.Fprintln(w)

	cyan.Fprintf(w, "Shortest path to %s:\n", title(report.End))
	if report.ShortestPath != nil && report.ShortestPath.Reachable() {
		fmt.Fprintf(w, "  %s\n", joinTitles(report.ShortestPath.Path, title))
		printHops(w, report, names)
		green.Fprintf(w, "  Distance: %.3f\n", report.ShortestPath.Distance)
	} else {
		red.Fprintln(w, "  unreachable")
	}
	fmt.Fprintln(w)

	cyan.Fprintf(w, "Minimum spanning forest: %d edges, total weight %.3f\n", len(report.Forest), report.ForestWeight)
	fmt.Fprintf(w, "  Order: %s\n", joinTitles(report.ForestOrder, title))

	if len(report.HopDistances) > 1 {
		fmt.Fprintln(w)
		cyan.Fprintln(w, "Degrees of separation from selection:")
		for _, id := range report.BFS {
			if hops, ok := report.HopDistances[id]; ok && hops > 0 {
				fmt.Fprintf(w, "  %s: %d\n", title(id), hops)
			}
		}
	}
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report *analysis.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// printHops lists the genres shared along each step of the shortest path
func printHops(w io.Writer, report *analysis.Report, names Namer) {
	path := report.ShortestPath.Path
	for i := 1; i < len(path); i++ {
		genres := sharedGenres(report, path[i-1], path[i])
		if len(genres) == 0 {
			continue
		}
		labels := make([]string, len(genres))
		for j, id := range genres {
			labels[j] = names.GenreName(id)
		}
		fmt.Fprintf(w, "    %s - %s: %s\n", names.Title(path[i-1]), names.Title(path[i]), strings.Join(labels, ", "))
	}
}

func sharedGenres(report *analysis.Report, a, b string) []int {
	for _, edge := range report.Graph.Edges {
		if (edge.Source == a && edge.Target == b) || (edge.Source == b && edge.Target == a) {
			return edge.CommonGenres
		}
	}
	return nil
}

func joinTitles(ids []string, title TitleFunc) string {
	if len(ids) == 0 {
		return "(none)"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = title(id)
	}
	return strings.Join(names, " -> ")
}
