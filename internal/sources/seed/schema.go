package seed

// Entry is a single resource in the seed file
type Entry struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

// File is the root structure of the seed file:
//
//	resources:
//	  - url: go.dev/doc
//	    title: Go docs
type File struct {
	Resources []Entry `yaml:"resources"`
}
