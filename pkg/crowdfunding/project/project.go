package project

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Project represents a crowdfunding project
//
// The owner of the project (UserID) receives the funds of its transactions.
type Project struct {
	ID     int64
	UserID int64
	Title  string
	Alias  string
	Goal   decimal.Decimal
	Funded decimal.Decimal

	CategoryID    int64
	CategoryAlias string
}

// Empty returns true if the project was not loaded
func (p Project) Empty() bool {
	return p.ID == 0
}

// Slug returns the identifier of the project used in routes
func (p Project) Slug() string {
	return slug(p.ID, p.Alias)
}

// CatSlug returns the identifier of the project category used in routes
func (p Project) CatSlug() string {
	return slug(p.CategoryID, p.CategoryAlias)
}

func slug(id int64, alias string) string {
	s := strconv.FormatInt(id, 10)
	if alias == "" {
		return s
	}
	return s + "-" + alias
}

// BackingRoute returns the path of the backing page with the given layout
//
//	/projects/{catslug}/{slug}/backing/{layout}
func BackingRoute(slug, catSlug, layout string) string {
	return "/projects/" + catSlug + "/" + slug + "/backing/" + layout
}
