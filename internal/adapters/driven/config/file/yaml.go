package file

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// yamlFiles decodes the files key of a YAML report. It accepts a single
// file name, a mapping of file name to values (or null), or a sequence
// of file names and {name, values} mappings. Mapping order is kept.
type yamlFiles struct {
	variants []domain.FileVariant
}

func (f *yamlFiles) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if isNull(node) {
			return nil
		}
		f.variants = []domain.FileVariant{{Name: node.Value}}
		return nil

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			values, err := yamlValues(val)
			if err != nil {
				return fmt.Errorf("line %d: %q: %w", val.Line, key.Value, err)
			}
			f.variants = append(f.variants, domain.FileVariant{Name: key.Value, Values: values})
		}
		return nil

	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				f.variants = append(f.variants, domain.FileVariant{Name: item.Value})
			case yaml.MappingNode:
				var entry struct {
					Name   string    `yaml:"name"`
					Values yaml.Node `yaml:"values"`
				}
				if err := item.Decode(&entry); err != nil {
					return err
				}
				values, err := yamlValues(&entry.Values)
				if err != nil {
					return fmt.Errorf("line %d: %q: %w", item.Line, entry.Name, err)
				}
				f.variants = append(f.variants, domain.FileVariant{Name: entry.Name, Values: values})
			default:
				return fmt.Errorf("line %d: unsupported files entry", item.Line)
			}
		}
		return nil

	default:
		return fmt.Errorf("line %d: files must be a name, a mapping or a list", node.Line)
	}
}

// yamlValues decodes the filter values of one file.
func yamlValues(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if isNull(node) {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, errors.New("filter values must be scalars")
			}
			values = append(values, item.Value)
		}
		return values, nil
	default:
		return nil, errors.New("filter values must be a list")
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func decodeYAML(data []byte) (*domain.Settings, error) {
	var cfg fileConfig[reportConf[yamlFiles]]
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return toSettings(&cfg, func(f yamlFiles) ([]domain.FileVariant, error) {
		return f.variants, nil
	})
}
