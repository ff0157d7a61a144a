/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Movie is a title and the set of names in its cast.
type Movie struct {
	Title string
	Cast  map[string]struct{}
}

func NewMovie(title string, cast ...string) Movie {
	m := Movie{
		Title: title,
		Cast:  make(map[string]struct{}, len(cast)),
	}
	for _, name := range cast {
		m.Cast[name] = struct{}{}
	}
	return m
}

func (m Movie) Has(name string) bool {
	_, ok := m.Cast[name]
	return ok
}

// Catalog indexes a fixed set of movies by cast member. It is built once and
// never modified, so it is safe to share between goroutines.
type Catalog struct {
	movies []Movie
	byName map[string][]int // name -> indexes into movies, ascending
}

func NewCatalog(movies []Movie) *Catalog {
	c := &Catalog{
		movies: movies,
		byName: make(map[string][]int),
	}
	for i, m := range movies {
		for name := range m.Cast {
			c.byName[name] = append(c.byName[name], i)
		}
	}
	return c
}

// Connected reports whether a and b appear together in at least one cast.
func (c *Catalog) Connected(a, b string) bool {
	for _, i := range c.byName[a] {
		if c.movies[i].Has(b) {
			return true
		}
	}
	return false
}

// SharedTitles lists, in catalog order, the titles of every movie whose cast
// contains both a and b.
func (c *Catalog) SharedTitles(a, b string) []string {
	var titles []string
	for _, i := range c.byName[a] {
		if c.movies[i].Has(b) {
			titles = append(titles, c.movies[i].Title)
		}
	}
	return titles
}
