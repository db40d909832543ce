package importer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const buildPropertiesPath = "project/build.properties"
const sbtVersionKey = "sbt.version"

// DetectVersion reads the build tool version declared in the project's
// build.properties. Returns "" when the file or the version key is absent;
// the gate rejects an empty version.
func DetectVersion(projectRoot string) (string, error) {
	f, err := os.Open(filepath.Join(projectRoot, filepath.FromSlash(buildPropertiesPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == sbtVersionKey {
			return strings.TrimSpace(value), nil
		}
	}
	return "", scanner.Err()
}
