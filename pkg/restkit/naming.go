package restkit

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// PathSegment derives the URL path segment for a resource name: CamelCase and
// underscores become hyphen-separated lower case ("SpaceDragon" and
// "space_dragon" both give "space-dragon"). Names that are already lower case
// without underscores are kept as they are. With pluralize the last word is
// pluralized ("space-dragons").
func PathSegment(name string, pluralize bool) string {
	segment := name
	if strings.ToLower(name) != name || strings.Contains(name, "_") {
		segment = strcase.ToKebab(name)
	}

	if pluralize && segment != "" {
		segment = inflection.Plural(segment)
	}

	return segment
}

// AttributeName returns the snake_case name a declared resource is exposed
// under ("SpaceDragon" gives "space_dragon").
func AttributeName(name string) string {
	return strcase.ToSnake(name)
}
