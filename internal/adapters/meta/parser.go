// Package meta reads the metadata block embedded in task files.
package meta

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	yamlBoolTag = "!!bool"
	yamlNullTag = "!!null"
	tagKey      = "tag"
	ttyKey      = "tty"
)

// document mirrors the recognised metadata keys. Unknown keys are ignored.
type document struct {
	HelpText    string    `yaml:"help-text"`
	Image       yaml.Node `yaml:"image"`
	RunRequired *bool     `yaml:"run-required"`
	Requires    []string  `yaml:"requires"`
	Overrides   yaml.Node `yaml:"overrides"`
	Defaults    yaml.Node `yaml:"defaults"`
}

// Parser extracts metadata from task file contents.
type Parser struct {
	logger ports.Logger
}

// NewParser creates a Parser that reports its decisions at debug level.
func NewParser(logger ports.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts the metadata block from content.
//
// The block starts at the first line containing "---" and ends at the next occurrence of
// that exact line. Whatever surrounds the dashes on the delimiter line is the comment
// marker, and it is stripped from the start of every line of the block before decoding.
func (p *Parser) Parse(content []byte) (*domain.TaskMetadata, error) {
	text := string(content)
	meta := &domain.TaskMetadata{Digest: xxhash.Sum64(content)}

	sep, ok := delimiterLine(text)
	if !ok {
		p.logger.Debug("  No meta found")
		return meta, nil
	}

	parts := strings.SplitN(text, sep, 3)
	if len(parts) != 3 {
		return nil, zerr.With(domain.ErrMetadataParse, "reason", fmt.Sprintf("delimiter %q is never closed", sep))
	}

	marker := strings.ReplaceAll(sep, domain.MetadataDelimiter, "")
	p.logger.Debug(fmt.Sprintf("  Meta commented out using '%s'", marker))
	block := strings.ReplaceAll(parts[1], "\n"+marker, "\n")

	meta.Found = true
	if err := decode(block, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// delimiterLine returns the first line containing the delimiter.
func delimiterLine(text string) (string, bool) {
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if strings.Contains(line, domain.MetadataDelimiter) {
			return line, true
		}
	}
	return "", false
}

func decode(block string, meta *domain.TaskMetadata) error {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return zerr.Wrap(err, domain.ErrMetadataParse.Error())
	}

	// An empty block is a document without content.
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil
	}

	body := resolve(root.Content[0])
	if body.Kind == yaml.ScalarNode && body.Tag == yamlNullTag {
		return nil
	}
	if body.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrMetadataParse, "reason", "metadata is not a mapping")
	}

	var doc document
	if err := body.Decode(&doc); err != nil {
		return zerr.Wrap(err, domain.ErrMetadataParse.Error())
	}

	image, err := decodeImage(&doc.Image)
	if err != nil {
		return err
	}
	overrides, err := decodeEnv(&doc.Overrides, "overrides")
	if err != nil {
		return err
	}
	defaults, err := decodeEnv(&doc.Defaults, "defaults")
	if err != nil {
		return err
	}

	meta.HelpText = doc.HelpText
	meta.Image = image
	meta.RunRequired = doc.RunRequired
	meta.Requires = doc.Requires
	meta.Overrides = overrides
	meta.Defaults = defaults
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == yamlNullTag)
}

func decodeEnv(node *yaml.Node, field string) (*domain.Environment, error) {
	n := resolve(node)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, zerr.With(zerr.With(domain.ErrMetadataParse, "reason", "expected a mapping"), "field", field)
	}

	env := domain.NewEnvironment()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		value := resolve(n.Content[i+1])
		if value.Kind != yaml.ScalarNode {
			return nil, zerr.With(zerr.With(domain.ErrMetadataParse, "reason", "expected a scalar value"), "field", field+"."+key.Value)
		}
		if value.Tag == yamlNullTag {
			env.Set(key.Value, "")
			continue
		}
		env.Set(key.Value, value.Value)
	}
	return env, nil
}

func decodeImage(node *yaml.Node) (domain.Image, error) {
	n := resolve(node)
	if isNull(n) {
		return domain.Image{}, nil
	}

	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return domain.Image{}, nil
		}
		return domain.BareImage(n.Value), nil
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			return domain.Image{}, nil
		}
		return decodeStructuredImage(n)
	default:
		return domain.Image{}, zerr.With(domain.ErrImageOption, "option", "image")
	}
}

func decodeStructuredImage(n *yaml.Node) (domain.Image, error) {
	image := domain.Image{Kind: domain.ImageStructured}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i]).Value
		value := resolve(n.Content[i+1])

		if key == tagKey {
			if value.Kind != yaml.ScalarNode || value.Tag == yamlNullTag {
				return domain.Image{}, zerr.With(domain.ErrImageOption, "option", key)
			}
			image.Tag = value.Value
			continue
		}

		opt, err := decodeOption(key, value)
		if err != nil {
			return domain.Image{}, err
		}
		if key == ttyKey && opt.Value.Kind == domain.OptionBool {
			image.TTY = opt.Value.Bool
		}
		image.Options = append(image.Options, opt)
	}

	return image, nil
}

func decodeOption(key string, value *yaml.Node) (domain.ImageOption, error) {
	switch value.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode || item.Tag == yamlNullTag {
				return domain.ImageOption{}, zerr.With(domain.ErrImageOption, "option", key)
			}
			items = append(items, item.Value)
		}
		return domain.ListOption(key, items...), nil
	case yaml.ScalarNode:
		switch value.Tag {
		case yamlNullTag:
			return domain.ImageOption{}, zerr.With(domain.ErrImageOption, "option", key)
		case yamlBoolTag:
			var b bool
			if err := value.Decode(&b); err != nil {
				return domain.ImageOption{}, zerr.Wrap(err, domain.ErrImageOption.Error())
			}
			return domain.BoolOption(key, b), nil
		default:
			return domain.StringOption(key, value.Value), nil
		}
	default:
		return domain.ImageOption{}, zerr.With(domain.ErrImageOption, "option", key)
	}
}
