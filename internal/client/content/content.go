// Package content serves the static job listings and blog posts shown next
// to a profile, and ranks posts by how well their tags match the user.
package content

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var bundled []byte

type Job struct {
	ID           int    `yaml:"id"`
	Title        string `yaml:"title"`
	Company      string `yaml:"company"`
	Location     string `yaml:"location"`
	Salary       string `yaml:"salary"`
	Type         string `yaml:"type"`
	Match        int    `yaml:"match"`
	Description  string `yaml:"description"`
	Requirements string `yaml:"requirements"`
	Posted       string `yaml:"posted"`
}

type Post struct {
	ID         int      `yaml:"id"`
	Title      string   `yaml:"title"`
	Excerpt    string   `yaml:"excerpt"`
	Author     string   `yaml:"author"`
	AuthorRole string   `yaml:"authorRole"`
	Category   string   `yaml:"category"`
	ReadTime   string   `yaml:"readTime"`
	Likes      int      `yaml:"likes"`
	Date       string   `yaml:"date"`
	Tags       []string `yaml:"tags"`
}

// RankedPost is a post with its relevance to a user.
type RankedPost struct {
	Post
	Relevance int
}

type Catalog struct {
	Jobs  []Job  `yaml:"jobs"`
	Posts []Post `yaml:"posts"`
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. A broken embed is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(bundled)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// SortedJobs returns the listings with the best match first.
func (c *Catalog) SortedJobs() []Job {
	jobs := slices.Clone(c.Jobs)
	slices.SortStableFunc(jobs, func(a, b Job) int { return b.Match - a.Match })
	return jobs
}

// Relevance scores p for u: 1, plus 2 per tag found in the user's skills and
// 1 per tag found in the user's title (case-insensitive substring match).
// Without a user every post scores 1.
func Relevance(p Post, u *models.UserRecord) int {
	score := 1
	if u == nil {
		return score
	}
	skills := strings.ToLower(u.Skills)
	title := strings.ToLower(u.Title)
	for _, tag := range p.Tags {
		tag = strings.ToLower(tag)
		if strings.Contains(skills, tag) {
			score += 2
		}
		if title != "" && strings.Contains(title, tag) {
			score++
		}
	}
	return score
}

// RankPosts orders the posts by relevance to u, keeping catalog order for
// ties.
func (c *Catalog) RankPosts(u *models.UserRecord) []RankedPost {
	out := make([]RankedPost, len(c.Posts))
	for i, p := range c.Posts {
		out[i] = RankedPost{Post: p, Relevance: Relevance(p, u)}
	}
	slices.SortStableFunc(out, func(a, b RankedPost) int { return b.Relevance - a.Relevance })
	return out
}
