package ot

import "github.com/textengine/fontkit/internal/testutil"

// findTestFont locates a font fixture under testdata/ through the shared
// testutil search paths.
func findTestFont(name string) string {
	return testutil.FindTestFont(name)
}
