//go:build ignore

// Classify-transcript runs the protocol classifier over captured device
// transcripts and prints per-kind statistics. Useful for checking the
// classifier against real MP-50/MP-60 traffic captures.
//
// Usage:
//
//	go run tools/classify-transcript.go <file-or-directory> [...]
//
// Each input file is read line by line. Lines are classified as echo,
// reply or state update, and state updates are tallied per kind.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nkarlsen/lyngctl/internal/protocol"
)

type statistics struct {
	Total   int
	Echoes  int
	Replies int
	Updates int
	ByKind  map[protocol.Kind]int
}

func newStatistics() *statistics {
	return &statistics{ByKind: make(map[protocol.Kind]int)}
}

func (s *statistics) add(cl protocol.Classified) {
	s.Total++
	switch cl.Class {
	case protocol.ClassEcho:
		s.Echoes++
	case protocol.ClassStateUpdate:
		s.Updates++
		s.ByKind[cl.Update.Kind]++
	default:
		s.Replies++
	}
}

func (s *statistics) merge(other *statistics) {
	s.Total += other.Total
	s.Echoes += other.Echoes
	s.Replies += other.Replies
	s.Updates += other.Updates
	for k, n := range other.ByKind {
		s.ByKind[k] += n
	}
}

func classifyFile(path string, verbose bool) (*statistics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stats := newStatistics()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cl := protocol.Classify(line)
		stats.add(cl)
		if verbose && cl.Class == protocol.ClassStateUpdate {
			fmt.Printf("  %-18s %s\n", cl.Update.Kind, cl.Text)
		}
	}
	return stats, scanner.Err()
}

func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.txt"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func main() {
	verbose := false
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "-v" {
		verbose = true
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: classify-transcript [-v] <file-or-directory> [...]")
		os.Exit(2)
	}

	files, err := collectFiles(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no transcript files found")
		os.Exit(1)
	}

	total := newStatistics()
	for _, path := range files {
		stats, err := classifyFile(path, verbose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: %d lines (%d echoes, %d replies, %d updates)\n",
			path, stats.Total, stats.Echoes, stats.Replies, stats.Updates)
		total.merge(stats)
	}

	fmt.Printf("\nTotal: %d lines across %d files\n", total.Total, len(files))
	fmt.Printf("  Echoes:  %d\n", total.Echoes)
	fmt.Printf("  Replies: %d\n", total.Replies)
	fmt.Printf("  Updates: %d\n", total.Updates)

	kinds := make([]protocol.Kind, 0, len(total.ByKind))
	for k := range total.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Printf("    %-18s %d\n", k, total.ByKind[k])
	}
}
