// Package sysconfig implements line faithful editing of sysconfig style
// KEY=VALUE files. Only lines recognized as assignments are offered to a
// handler for replacement; everything else round-trips byte for byte.
package sysconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"github.com/openSUSE/rpcportctl/internal/ports"
)

// LineHandler is called for every KEY=VALUE assignment line. It returns the
// full replacement line (without trailing newline) and true, or false to keep
// the original line untouched.
type LineHandler func(key, value string) (string, bool, error)

// Transform runs the handler over every assignment line in content and
// returns the reassembled file. Blank lines, comments and lines that do not
// split into exactly key and value on '=' pass through unmodified. Lines are
// never reordered, dropped or added.
func Transform(content string, handler LineHandler) (string, error) {
	var out strings.Builder

	rest := content
	for len(rest) > 0 {
		line := rest
		terminator := ""
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			line, terminator = rest[:idx], "\n"
			rest = rest[idx+1:]
		} else {
			rest = ""
		}

		replaced, ok, err := transformLine(line, handler)
		if err != nil {
			return "", err
		}
		if ok {
			out.WriteString(replaced)
		} else {
			out.WriteString(line)
		}
		out.WriteString(terminator)
	}

	return out.String(), nil
}

func transformLine(line string, handler LineHandler) (string, bool, error) {
	stripped := strings.TrimSpace(line)

	if stripped == "" || strings.HasPrefix(stripped, "#") {
		return "", false, nil
	}

	parts := strings.Split(stripped, "=")
	if len(parts) != 2 {
		// no key/value pair
		return "", false, nil
	}

	return handler(parts[0], parts[1])
}

// NotInstalledError reports a missing sysconfig file, which means the package
// a pattern belongs to is not installed.
type NotInstalledError struct {
	Path string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("the package providing %s does not seem to be installed", e.Path)
}

// ReadFile loads a sysconfig file, mapping a missing file to
// NotInstalledError.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotInstalledError{Path: path}
		}
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(content), nil
}

// ScanPort extracts a port number from a sysconfig value. Values may be plain
// numbers or embedded in option syntax like "-p 713"; the first purely
// numeric token wins. A value outside the valid port range counts as
// unconfigured, so a broken existing assignment cannot become the suggested
// port.
func ScanPort(value string) (int, bool) {
	value = strings.Trim(value, `"`)

	tokens, err := shellquote.Split(value)
	if err != nil {
		tokens = strings.Fields(value)
	}
	for _, token := range tokens {
		if isDigits(token) {
			port, err := strconv.Atoi(token)
			if err != nil || ports.CheckRange(port) != nil {
				return 0, false
			}
			return port, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Assignment renders a replacement line for a sysconfig variable, formatting
// the port with the variable's value syntax.
func Assignment(key, syntax string, port int) string {
	return fmt.Sprintf("%s=%q", key, fmt.Sprintf(syntax, port))
}

// StaticPorts scans a pattern's sysconfig file for the static ports currently
// assigned to the given variables. Variables without a parseable port are
// simply absent from the result. A missing file yields an empty result, it
// just means nothing is configured.
func StaticPorts(path string, vars []string) (map[string]int, error) {
	static := make(map[string]int)

	content, err := ReadFile(path)
	if err != nil {
		var notInstalled *NotInstalledError
		if errors.As(err, &notInstalled) {
			return static, nil
		}
		return nil, err
	}

	owned := make(map[string]bool, len(vars))
	for _, v := range vars {
		owned[v] = true
	}

	_, err = Transform(content, func(key, value string) (string, bool, error) {
		if !owned[key] {
			return "", false, nil
		}
		if port, ok := ScanPort(value); ok {
			static[key] = port
		}
		return "", false, nil
	})
	if err != nil {
		return nil, err
	}

	return static, nil
}
