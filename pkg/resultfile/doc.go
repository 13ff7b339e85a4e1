// Package resultfile turns recorded run files on disk into types.Run values.
//
// Two formats are supported, selected by file extension:
//
//   - .xml: Zusi result files (<Zusi><result><FahrtEintrag .../></result></Zusi>)
//   - .fit: FIT activity files, via github.com/tormoder/fit
//
// Discover expands a glob pattern into a sorted list of files, Load and
// LoadAll decode them, and Watch reports changes to files matching a
// pattern so long-running callers can keep their runs current.
package resultfile
