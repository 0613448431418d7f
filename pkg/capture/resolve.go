package capture

import (
	"bufio"
	"os"
	"os/exec"
	"strings"
)

// Resolve decides which program to start for args.
//
// When args[0] is an executable script whose shebang mentions python, given
// as a path or found on PATH, the script runs directly with the remaining
// arguments so that its own interpreter (often a virtualenv) is used.
// Otherwise python runs with all of args.
func Resolve(python string, args []string) (string, []string) {
	if script, ok := findScript(args); ok {
		return script, append([]string(nil), args[1:]...)
	}
	return python, append([]string(nil), args...)
}

func findScript(args []string) (string, bool) {
	if len(args) == 0 || args[0] == "" || strings.HasPrefix(args[0], "-") {
		return "", false
	}
	candidate := args[0]
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate, info.Mode()&0o111 != 0 && hasPythonShebang(candidate)
	}
	if strings.ContainsRune(candidate, os.PathSeparator) {
		return "", false
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", false
	}
	return path, hasPythonShebang(path)
}

// hasPythonShebang reports whether the first line of path is a "#!" line
// naming a python interpreter.
func hasPythonShebang(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	if !strings.HasPrefix(line, "#!") {
		return false
	}
	return strings.Contains(strings.ToLower(line), "python")
}
