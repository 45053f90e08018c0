// Package assets provides the HTML templates and CSS styles of the journal:
// the web pages (layout, index, preview) and the print page used by the
// Chrome PDF backend.
//
// # Loaders
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed defaults
//	    ├── FilesystemLoader  - a directory on disk
//	    └── AssetResolver     - custom first, embedded on not-found
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css        # app.css, print.css
//	└── templates/
//	    └── {name}.html       # layout, index, preview, print
//
// A custom directory only needs the files it overrides.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
