package registry

import (
	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/filter"
	"github.com/docpack/docpack/internal/filter/rdoc"
)

// Builtin returns the registry of sources docpack ships with. Each
// source binds the filter chain that normalizes its pages; real
// deployments register one chain per upstream generator.
func Builtin() *Registry {
	r := New()

	r.MustRegister(&domain.Source{
		Slug:      "ruby",
		Name:      "Ruby",
		Versioned: true,
		BaseURL:   "https://docs.ruby-lang.org/en",
		Pages: []string{
			"index.html",
			"String.html",
			"Array.html",
			"Hash.html",
			"Enumerable.html",
		},
		Versions: []domain.Version{
			{Version: "3.4", Release: "3.4.1"},
			{Version: "3.3", Release: "3.3.6"},
		},
	}, filter.NewChain("ruby", rdoc.CleanHTML{}))

	r.MustRegister(&domain.Source{
		Slug:      "minitest",
		Name:      "Minitest",
		Versioned: true,
		BaseURL:   "https://docs.seattlerb.org/minitest",
		Pages: []string{
			"index.html",
			"Minitest.html",
			"Minitest/Test.html",
		},
		Versions: []domain.Version{
			{Version: "5.25", Release: "5.25.4"},
		},
	}, filter.NewChain("minitest", rdoc.CleanHTML{}))

	r.MustRegister(&domain.Source{
		Slug:    "redis",
		Name:    "Redis",
		BaseURL: "https://redis.io/docs/latest",
		Pages: []string{
			"commands/index.html",
			"develop/index.html",
		},
		Release: "7.4",
	}, nil)

	return r
}
