package audit

import (
	"os"
	"strings"
)

// LoadExcludeList reads package names to suppress from path. Names are
// separated by any whitespace, so one per line and several per line both work.
func LoadExcludeList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(data)), nil
}
