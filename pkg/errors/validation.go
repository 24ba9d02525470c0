package errors

import (
	"strings"
	"unicode"
)

// ValidateFilterClasses checks that every requested class is one of the
// model's known target names. The check runs before any prediction happens
// so that a bad filter fails fast.
//
// Returns nil when classes is empty: an empty filter means "all outputs".
func ValidateFilterClasses(targetNames, classes []string) error {
	if len(classes) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(targetNames))
	for _, name := range targetNames {
		known[name] = struct{}{}
	}

	for _, class := range classes {
		if _, ok := known[class]; !ok {
			return New(ErrCodeInvalidClass,
				"filter classes must be members of the model's target names (expected members of %v, got %q)",
				targetNames, class)
		}
	}
	return nil
}

// ValidateFeatureName validates a dataset column name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateFeatureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDataset, "feature name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDataset, "feature name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "feature name contains invalid control characters")
		}
	}

	return nil
}

// ValidateFeatureNames validates a full header of column names, including
// uniqueness across the set.
func ValidateFeatureNames(names []string) error {
	if len(names) == 0 {
		return New(ErrCodeInvalidDataset, "dataset must have at least one feature")
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := ValidateFeatureName(name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return New(ErrCodeInvalidDataset, "duplicate feature name: %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ValidateURL validates a model endpoint URL string.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
