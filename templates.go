package formrelay

import (
	"io/fs"

	"github.com/goliatone/go-formrelay/pkg/site"
)

// SiteTemplates exposes the built-in site templates so callers can reuse or
// extend them without importing the site package directly.
func SiteTemplates() fs.FS {
	return site.TemplatesFS()
}
