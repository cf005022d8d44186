/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package module

import (
	"fmt"
	"log/slog"

	"github.com/modctl/modctl/pkg/errors"
	"github.com/modctl/modctl/pkg/serializer"
)

// Catalog is the module descriptor document consumed at startup.
type Catalog struct {
	Modules []Descriptor `yaml:"modules" json:"modules"`
}

// LoadCatalog parses a catalog document from a local path or HTTP(S) URL and
// registers every descriptor. Registration failures (duplicate identifiers,
// invalid rules, unsafe hooks) are fatal to startup, per the
// registration-time error policy.
func LoadCatalog(path string, reg *Registry) error {
	cat, err := serializer.FromFile[Catalog](path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to load catalog %q", path), err)
	}

	for _, d := range cat.Modules {
		if err := reg.Register(d); err != nil {
			return err
		}
	}

	slog.Debug("catalog loaded", "path", path, "modules", len(cat.Modules))
	return nil
}
