package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *GalleryError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *GalleryError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Catalog errors

func CatalogNotFound(path string) *GalleryError {
	return New(CategoryCatalog, SeverityFatal, "catalog file not found").
		WithContext("path", path)
}

func DuplicateProject(path string) *GalleryError {
	return New(CategoryCatalog, SeverityFatal, "duplicate project path in catalog").
		WithContext("project", path)
}

func UnknownCategory(project, category string) *GalleryError {
	return New(CategoryCatalog, SeverityFatal, "project references a category outside the vocabulary").
		WithContext("project", project).
		WithContext("category", category)
}

// Artifact resolution errors

func NoDisplayableContent(project string) *GalleryError {
	return New(CategoryArtifact, SeverityFatal, "project declares no displayable content").
		WithContext("project", project)
}

func MissingIndexArtifact(project string) *GalleryError {
	return New(CategoryArtifact, SeverityWarning, "project has multiple documents but no index, excluded from gallery").
		WithContext("project", project)
}

// Asset errors

func MissingThumbnail(project, path string) *GalleryError {
	return New(CategoryAsset, SeverityWarning, "project has no thumbnail, card omitted").
		WithContext("project", project).
		WithContext("path", path)
}

func MissingLabelIcon(label, path string) *GalleryError {
	return New(CategoryAsset, SeverityFatal, "label has no icon file").
		WithContext("label", label).
		WithContext("path", path)
}

// Redirect errors

func DuplicateRedirect(source string) *GalleryError {
	return New(CategoryRedirect, SeverityFatal, "duplicate redirect source path").
		WithContext("source", source)
}

func RedirectTargetUnknown(source, target string) *GalleryError {
	return New(CategoryRedirect, SeverityFatal, "redirect target does not belong to a catalog project").
		WithContext("source", source).
		WithContext("target", target)
}

// Output errors

func RenderFailed(document string, cause error) *GalleryError {
	return Wrap(cause, CategoryRender, SeverityFatal, "document rendering failed").
		WithContext("document", document)
}

func WriteFailed(path string, cause error) *GalleryError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output write failed").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *GalleryError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
