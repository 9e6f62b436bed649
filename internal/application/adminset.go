package application

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

// LoadAdminSet reads one privileged account name per line. Names are trimmed
// and lower-cased; blank lines are ignored and duplicates collapse.
func LoadAdminSet(r io.Reader) (model.AdminSet, error) {
	set := make(model.AdminSet)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read admin list: %w", err)
	}
	return set, nil
}

// LoadAdminSetFile loads the admin list at path. An empty path or a missing
// file yields an empty set so privilege checks are simply always false.
func LoadAdminSetFile(path string) (model.AdminSet, error) {
	if path == "" {
		return model.AdminSet{}, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.AdminSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open admin list %q: %w", path, err)
	}
	defer f.Close()

	return LoadAdminSet(f)
}
