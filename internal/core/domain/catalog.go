package domain

// Catalog is a hierarchical document describing a set of security controls.
// Structural groups (control families) and top-level controls may appear
// side by side at the root.
type Catalog struct {
	// ID is the catalog identifier (OSCAL uuid), if present.
	ID string

	// Title is the human-readable catalog title.
	Title string

	// Groups are the structural groups at the root of the catalog.
	Groups []Group

	// Controls are controls declared directly at the root of the catalog.
	Controls []Control
}

// Group is a structural container such as a control family.
// Controls directly inside a group are top-level controls.
type Group struct {
	ID    string
	Title string

	// Parts are descriptive sub-sections of the group itself.
	// They are not compared; only control prose is.
	Parts []Part

	Groups   []Group
	Controls []Control
}

// Control is a named unit whose prose and parts are compared.
type Control struct {
	// ID identifies the control (e.g. "ac-2"). May be empty.
	ID string

	Title string

	// Prose is an optional synopsis of the control.
	Prose string

	// Parts are the named sub-sections of the control.
	Parts []Part

	// Controls are nested child controls (OSCAL enhancements).
	Controls []Control
}

// Part is a named sub-section of a control, possibly nested.
type Part struct {
	ID string

	// Name is the part's role (e.g. "statement", "guidance").
	Name string

	Prose string

	Parts []Part
}
