package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrRootFolderInaccessible occurs when the configured root folder cannot
	// be resolved at the start of a discovery run.
	ErrRootFolderInaccessible = errors.New("root folder is not accessible")

	// ErrNotAFolder occurs when a discovery run is pointed at an ID that
	// resolves to something other than a folder.
	ErrNotAFolder = errors.New("target is not a folder")

	// ErrMissingAttribution occurs when a record's parent folder has no entry
	// in the label map. Attribution must be total over its input.
	ErrMissingAttribution = errors.New("no label for parent folder")
)
