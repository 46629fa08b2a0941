package ui

import "os"

// DefaultCommandSuggestion scans dir for something worth running in a new
// session: the first regular file with any execute bit set, returned as
// "./<name>" so the shell resolves it relative to the working directory.
// Entries that cannot be inspected are skipped. An unreadable dir, or a dir
// with nothing executable in it, yields "".
func DefaultCommandSuggestion(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return "./" + entry.Name()
	}
	return ""
}
