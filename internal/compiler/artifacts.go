// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compiler

import (
	"slices"
	"time"

	"menupress/internal/models"
)

// Category groups the files of an artifact set.
type Category string

const (
	CategoryHTML   Category = "html"
	CategoryCSS    Category = "css"
	CategoryJS     Category = "js"
	CategoryAssets Category = "assets"
	CategorySEO    Category = "seo"
	CategoryPWA    Category = "pwa"
)

// Categories lists every category in manifest order.
var Categories = []Category{CategoryHTML, CategoryCSS, CategoryJS, CategoryAssets, CategorySEO, CategoryPWA}

// ArtifactSet is the outcome of one compile. On success Root is the live
// directory holding every file of Files; on failure Err says why and no
// file of the set is live.
type ArtifactSet struct {
	Root     string
	Files    map[Category][]string // paths relative to Root
	Release  string                // mirror release id, empty without a mirror
	Success  bool
	Err      error
	Duration time.Duration
}

func newArtifactSet() *ArtifactSet {
	return &ArtifactSet{Files: make(map[Category][]string, len(Categories))}
}

func (a *ArtifactSet) add(cat Category, rel string) {
	a.Files[cat] = append(a.Files[cat], rel)
}

// Counts returns the number of files per category.
func (a *ArtifactSet) Counts() map[string]int {
	counts := make(map[string]int, len(Categories))
	for _, cat := range Categories {
		counts[string(cat)] = len(a.Files[cat])
	}
	return counts
}

// Total returns the number of files in the set.
func (a *ArtifactSet) Total() int {
	n := 0
	for _, paths := range a.Files {
		n += len(paths)
	}
	return n
}

// Paths returns every relative path of the set, sorted.
func (a *ArtifactSet) Paths() []string {
	var all []string
	for _, paths := range a.Files {
		all = append(all, paths...)
	}
	slices.Sort(all)
	return all
}

// Result converts the set into the form stored on a deployment record.
func (a *ArtifactSet) Result() models.BuildResult {
	r := models.BuildResult{Success: a.Success}
	if a.Err != nil {
		r.Error = a.Err.Error()
	}
	if a.Success {
		r.FileCounts = a.Counts()
		r.Files = make(map[string][]string, len(a.Files))
		for cat, paths := range a.Files {
			sorted := slices.Clone(paths)
			slices.Sort(sorted)
			r.Files[string(cat)] = sorted
		}
	}
	return r
}
