package artifact

import "path/filepath"

// ResolveAuto returns baseDir/runID/stepKey/outputName.
func ResolveAuto(baseDir string, id OutputIdentity) string {
	return filepath.Join(append([]string{baseDir}, id.Segments()...)...)
}

// ResolveCustom returns baseDir joined with a caller-supplied relative path.
// The relative path is not checked for traversal.
func ResolveCustom(baseDir, rel string) string {
	return filepath.Join(baseDir, rel)
}
