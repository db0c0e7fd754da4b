package pipeline

import (
	"fmt"
	"path"
	"strings"
)

// Separator is the path separator used in physical addresses.
const Separator = "/"

// NormalizePrefix cleans a root prefix so it never carries a leading or trailing separator.
// The bucket root is the empty string.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, Separator)
	if prefix == "" {
		return ""
	}
	prefix = path.Clean(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}

// Resolve maps a logical key to its physical address under rootPrefix.
// The key is appended verbatim so that Unresolve recovers it exactly,
// including repeated or trailing separators.
func Resolve(rootPrefix, key string) string {
	switch {
	case rootPrefix == "":
		return key
	case key == "":
		return rootPrefix
	case strings.HasSuffix(rootPrefix, Separator):
		return rootPrefix + key
	default:
		return rootPrefix + Separator + key
	}
}

// ValidateChildName rejects namespace names that would leave the parent root:
// names made only of separators and names with "." or ".." segments.
func ValidateChildName(name string) error {
	trimmed := strings.Trim(name, Separator)
	if trimmed == "" {
		return fmt.Errorf("%w: namespace name %q is empty", ErrConfiguration, name)
	}
	for _, segment := range strings.Split(trimmed, Separator) {
		if segment == "." || segment == ".." {
			return fmt.Errorf("%w: namespace name %q must not contain %q segments", ErrConfiguration, name, segment)
		}
	}
	return nil
}

// Unresolve recovers the logical key from a physical address.
// Addresses outside rootPrefix are returned unchanged.
func Unresolve(rootPrefix, address string) string {
	if !strings.HasPrefix(address, rootPrefix) {
		return address
	}
	return strings.TrimPrefix(address[len(rootPrefix):], Separator)
}

// scope returns the listing prefix covering every object of the namespace.
func scope(rootPrefix string) string {
	if rootPrefix == "" {
		return ""
	}
	return rootPrefix + Separator
}
