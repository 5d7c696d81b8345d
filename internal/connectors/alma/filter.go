package alma

import (
	"encoding/xml"
	"strings"

	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// Ensure FilterBuilder implements the interface.
var _ driven.FilterBuilder = (*FilterBuilder)(nil)

// Namespace declarations of the analytics filter expression language.
const filterNamespaces = `xmlns:saw="com.siebel.analytics.web/report/v1.1" ` +
	`xmlns:sawx="com.siebel.analytics.web/expression/v1.1" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ` +
	`xmlns:xsd="http://www.w3.org/2001/XMLSchema"`

// FilterBuilder builds "variable in (values)" filter expressions.
type FilterBuilder struct{}

// NewFilterBuilder creates a filter builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// BuildFilter returns a sawx:list expression restricting variable to values.
// The variable and every value are XML-escaped.
func (b *FilterBuilder) BuildFilter(variable string, values []string) (string, error) {
	if strings.TrimSpace(variable) == "" {
		return "", ErrEmptyVariable
	}

	var sb strings.Builder
	sb.WriteString(`<sawx:expr xsi:type="sawx:list" op="in" `)
	sb.WriteString(filterNamespaces)
	sb.WriteString(`><sawx:expr xsi:type="sawx:sqlExpression">`)
	if err := xml.EscapeText(&sb, []byte(variable)); err != nil {
		return "", err
	}
	sb.WriteString(`</sawx:expr>`)
	for _, v := range values {
		sb.WriteString(`<sawx:expr xsi:type="xsd:string">`)
		if err := xml.EscapeText(&sb, []byte(v)); err != nil {
			return "", err
		}
		sb.WriteString(`</sawx:expr>`)
	}
	sb.WriteString(`</sawx:expr>`)
	return sb.String(), nil
}
