package cli

import (
	"context"
	"fmt"
	"strings"
)

// Jobs lists the job listings, best match first.
func (a *App) Jobs(ctx context.Context) error {
	for _, j := range a.catalog.SortedJobs() {
		fmt.Fprintf(a.out, "%3d%% match  %s @ %s\n", j.Match, j.Title, j.Company)
		fmt.Fprintf(a.out, "            %s | %s | %s | %s\n", j.Location, j.Salary, j.Type, j.Posted)
	}
	return nil
}

// Blog lists the blog posts ranked by relevance to the signed-in user.
func (a *App) Blog(ctx context.Context) error {
	for _, p := range a.catalog.RankPosts(a.session.CurrentUser()) {
		fmt.Fprintf(a.out, "[%d] %s\n", p.Relevance, p.Title)
		fmt.Fprintf(a.out, "    %s, %s | %s | %s\n", p.Author, p.AuthorRole, p.ReadTime, strings.Join(p.Tags, ", "))
	}
	return nil
}
