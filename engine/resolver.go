package engine

import (
	"fmt"
	"strings"
)

// Resolve picks the engine for a script resource.
//
// A non-empty engineName is looked up by name only; when it is not registered the resolution fails
// and the resource suffix is never consulted. Otherwise the engine is looked up by the extension
// of resourceName, see Extension.
func Resolve(engineName, resourceName string, reg Lookup) (Engine, error) {
	if engineName != "" {
		e, ok := reg.LookupByName(engineName)
		if !ok {
			return nil, &UnsupportedEngineError{Reason: fmt.Sprintf("no engine named %s", engineName)}
		}
		return e, nil
	}

	ext := Extension(resourceName)
	e, ok := reg.LookupByExtension(ext)
	if !ok {
		return nil, &UnsupportedEngineError{Reason: fmt.Sprintf("no engine for extension %s", ext)}
	}
	return e, nil
}

// BaseName returns the part of a '/'-separated resource name after the last separator.
func BaseName(resourceName string) string {
	if i := strings.LastIndexByte(resourceName, '/'); i >= 0 {
		return resourceName[i+1:]
	}
	return resourceName
}

// Extension returns everything after the first '.' of the base name, so "lib/foo.tar.gz" gives
// "tar.gz". A base name without a dot is returned whole: "README" gives "README".
func Extension(resourceName string) string {
	base := BaseName(resourceName)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return base
}
