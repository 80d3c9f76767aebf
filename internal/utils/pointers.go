package utils

const columnPrefixFmt = "%s.%s"

func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}

// NonEmptyPtr returns nil for blank strings.
func NonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
