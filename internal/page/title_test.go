package page

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"index.md", "Home"},
		{"index", "Home"},
		{"index.html.md", "Home"},
		{"about_me.md", "about me"},
		{"my-first-post.txt", "my first post"},
		{"posts/hello-world.md", "hello world"},
		{"blog/index.md", "blog"},
		{"my_blog/index.md", "my blog"},
		{"a/b-c/index", "b c"},
		{"notes.tar.gz", "notes.tar"},
		{"README", "README"},
		{"v1.2/release_notes.md", "release notes"},
		{"indexer.md", "indexer"},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.rel))
		})
	}
}

func TestDeriveTitleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	name := gen.RegexMatch(`[a-z][a-z_-]{0,11}`)

	properties.Property("titles never contain separators", prop.ForAll(
		func(dir, file string) bool {
			title := DeriveTitle(dir + "/" + file + ".md")
			return !strings.ContainsAny(title, "_-/")
		},
		name, name,
	))

	properties.Property("directory index takes the directory name", prop.ForAll(
		func(parent, dir string) bool {
			want := strings.NewReplacer("_", " ", "-", " ").Replace(dir)
			return DeriveTitle(parent+"/"+dir+"/index.md") == want
		},
		name, name,
	))

	properties.Property("only the last extension is stripped", prop.ForAll(
		func(base, ext string) bool {
			if strings.HasPrefix(base, "index") {
				return true
			}
			got := DeriveTitle(base + ".x." + ext)
			return strings.HasSuffix(got, ".x")
		},
		name, name,
	))

	properties.TestingRun(t)
}
