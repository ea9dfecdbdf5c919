package enums

import "fmt"

// DirectorySort selects the ordering for curated directory listings.
type DirectorySort string

const (
	// DirectorySortScore orders by sentinel score, best first.
	DirectorySortScore DirectorySort = "score"
	// DirectorySortName orders by service name, lexicographic ascending.
	DirectorySortName DirectorySort = "name"
)

var validDirectorySorts = []DirectorySort{
	DirectorySortScore,
	DirectorySortName,
}

// String implements fmt.Stringer.
func (d DirectorySort) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DirectorySort) IsValid() bool {
	for _, candidate := range validDirectorySorts {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDirectorySort converts raw input into a DirectorySort, defaulting empty
// input to score ordering.
func ParseDirectorySort(value string) (DirectorySort, error) {
	if value == "" {
		return DirectorySortScore, nil
	}
	for _, candidate := range validDirectorySorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid directory sort %q", value)
}
