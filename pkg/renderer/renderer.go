/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package renderer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/modctl/modctl/pkg/errors"
)

// ConfigRenderer materializes a module's configuration from its template and
// parameters.
type ConfigRenderer interface {
	Render(templateText string, params map[string]string) ([]byte, error)
}

// TemplateRenderer renders Go text templates. Unknown parameter references
// fail the render rather than producing empty output, so a typo in a
// descriptor cannot silently ship a broken config.
type TemplateRenderer struct{}

// NewTemplateRenderer creates a renderer.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

// Render implements ConfigRenderer.
func (r *TemplateRenderer) Render(templateText string, params map[string]string) ([]byte, error) {
	tmpl, err := template.New("config").Option("missingkey=error").Parse(templateText)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to parse config template", err)
	}

	if params == nil {
		params = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to render config template with %d params", len(params)), err)
	}
	return buf.Bytes(), nil
}
