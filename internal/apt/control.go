package apt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pault.ag/go/debian/control"
)

// ErrMissingField is reported for a package paragraph lacking Package or Version
var ErrMissingField = errors.New("paragraph is missing a required field")

// readVersions parses a deb822 package index (a lists/*_Packages file, plain
// or compressed, or the dpkg status file) into Version records. When
// installedOnly is set, paragraphs whose Status is not "... installed" are
// skipped. Paragraphs missing Package or Version are returned in skipped and
// do not stop the rest of the file from loading.
func readVersions(path, source string, installedOnly bool) (versions []*Version, skipped []error, err error) {
	r, err := openIndex(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	return parseVersions(r, source, installedOnly)
}

func parseVersions(r io.Reader, source string, installedOnly bool) ([]*Version, []error, error) {
	reader, err := control.NewParagraphReader(r, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	var versions []*Version
	var skipped []error
	for {
		para, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}

		if installedOnly && !isInstalled(para.Values["Status"]) {
			continue
		}

		name := strings.TrimSpace(para.Values["Package"])
		ver := strings.TrimSpace(para.Values["Version"])
		if name == "" || ver == "" {
			skipped = append(skipped, fmt.Errorf("%w in %s (package %q)", ErrMissingField, source, name))
			continue
		}

		versions = append(versions, &Version{
			Package:      name,
			Version:      ver,
			Architecture: strings.TrimSpace(para.Values["Architecture"]),
			Source:       source,
			Recommends:   SplitRelations(para.Values["Recommends"]),
		})
	}

	return versions, skipped, nil
}

// isInstalled reports whether a dpkg Status value ("install ok installed")
// describes an unpacked, configured package
func isInstalled(status string) bool {
	fields := strings.Fields(status)
	return len(fields) == 3 && fields[2] == "installed"
}

// SplitRelations splits a relationship field such as Recommends into its raw
// comma-separated declarations. Alternatives ("a | b") and version
// constraints stay inside a single declaration; folded whitespace is collapsed.
func SplitRelations(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	parts := strings.Split(field, ",")
	relations := make([]string, 0, len(parts))
	for _, part := range parts {
		decl := strings.Join(strings.Fields(part), " ")
		if decl == "" {
			continue
		}
		relations = append(relations, decl)
	}
	return relations
}
