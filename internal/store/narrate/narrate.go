// Package narrate turns two versions of a site file into a short,
// human-readable change summary for the changelog. It is a narrator,
// not a diff: the heuristics are approximations, kept pure and
// side-effect free so a real line diff could replace them later
// without touching the capture engine.
package narrate

import (
	"fmt"
	"regexp"
	"strings"
)

// projectMarker is the opening tag of one project card in the grid
// pages; counting it approximates the number of listed projects.
const projectMarker = `<article class="grid-item"`

var titleRe = regexp.MustCompile(`"title"\s*:\s*"([^"]*)"`)

// projectPages are the gallery pages whose content is a project grid.
var projectPages = map[string]bool{
	"projects.html": true,
	"drawings.html": true,
	"graphics.html": true,
}

const aboutPage = "about.html"

// Narrate describes what changed in one file between two captures.
// It never fails: malformed content degrades to a generic note.
func Narrate(name, prev, curr string) (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			lines = []string{fmt.Sprintf("%s: file content modified", name)}
		}
	}()

	switch {
	case projectPages[name]:
		return narrateProjects(name, prev, curr)
	case name == aboutPage:
		if len(prev) != len(curr) {
			return []string{fmt.Sprintf("%s: About page content modified", name)}
		}
		return nil
	default:
		return narrateGeneric(name, prev, curr)
	}
}

func narrateProjects(name, prev, curr string) []string {
	prevCount := strings.Count(prev, projectMarker)
	currCount := strings.Count(curr, projectMarker)

	var lines []string
	switch {
	case currCount > prevCount:
		lines = append(lines, fmt.Sprintf("%s: %d projects added (total %d)", name, currCount-prevCount, currCount))
	case currCount < prevCount:
		lines = append(lines, fmt.Sprintf("%s: %d projects removed (total %d)", name, prevCount-currCount, currCount))
	case prev != curr:
		lines = append(lines, fmt.Sprintf("%s: project content modified (total %d)", name, currCount))
	}

	prevTitles := extractTitles(prev)
	currTitles := extractTitles(curr)
	for _, t := range currTitles.order {
		if !prevTitles.set[t] {
			lines = append(lines, fmt.Sprintf("✨ new project: %s", t))
		}
	}
	for _, t := range prevTitles.order {
		if !currTitles.set[t] {
			lines = append(lines, fmt.Sprintf("🗑️ removed: %s", t))
		}
	}
	return lines
}

func narrateGeneric(name, prev, curr string) []string {
	switch {
	case prev == "" && curr != "":
		return []string{fmt.Sprintf("%s: new backup", name)}
	case prev != "" && curr != "" && prev != curr:
		return []string{fmt.Sprintf("%s: file content modified", name)}
	default:
		return nil
	}
}

type titleSet struct {
	set   map[string]bool
	order []string
}

func extractTitles(text string) titleSet {
	ts := titleSet{set: map[string]bool{}}
	for _, m := range titleRe.FindAllStringSubmatch(text, -1) {
		if !ts.set[m[1]] {
			ts.set[m[1]] = true
			ts.order = append(ts.order, m[1])
		}
	}
	return ts
}
