package routes

import (
	"net/http"
	"slices"
)

// Group organizes routes under a common prefix with shared tags.
// Tags propagate to child groups.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	Walk(func(path string, route Route, _ []string) {
		mux.HandleFunc(route.Method+" "+path, route.Handler)
	}, groups...)
}

// Walk visits every route with its fully prefixed path and inherited tags.
func Walk(fn func(path string, route Route, tags []string), groups ...Group) {
	for _, group := range groups {
		walkGroup(fn, "", nil, group)
	}
}

func walkGroup(fn func(string, Route, []string), parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := append(slices.Clone(parentTags), group.Tags...)

	for _, route := range group.Routes {
		fn(fullPrefix+route.Pattern, route, tags)
	}
	for _, child := range group.Children {
		walkGroup(fn, fullPrefix, tags, child)
	}
}
