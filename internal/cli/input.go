package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
)

// loadGraph reads a graph file in any supported format.
func loadGraph(path string) (*graph.Graph, error) {
	return y0io.ImportGraph(path)
}

// queryGraph resolves the graph of a query loaded from queryPath: the inline
// graph, or graph_file, which must be a relative path inside the query's
// directory.
func queryGraph(q *y0io.QueryDocument, queryPath string) (*graph.Graph, error) {
	switch {
	case q.Graph != nil:
		return q.Graph.Graph()
	case q.GraphFile != "":
		if err := y0errors.ValidatePath(q.GraphFile); err != nil {
			return nil, err
		}
		return loadGraph(filepath.Join(filepath.Dir(queryPath), q.GraphFile))
	default:
		return nil, y0errors.New(y0errors.ErrCodeInvalidQuery, "%s names no graph; pass one as an argument", queryPath)
	}
}

// varSet validates names and turns them into a set.
func varSet(names []string) (graph.Set, error) {
	if err := y0errors.ValidateVariableNames(names); err != nil {
		return nil, err
	}
	return graph.SetOf(names...), nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
