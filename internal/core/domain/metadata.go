package domain

// TaskMetadata is the parsed metadata block of a task file.
// The zero value is the metadata of a file without a block.
type TaskMetadata struct {
	HelpText    string
	Image       Image
	RunRequired *bool
	Requires    []string
	Overrides   *Environment
	Defaults    *Environment
	// Found reports whether the file carried a metadata block at all.
	Found bool
	// Digest is the xxhash of the file contents the metadata was parsed from.
	Digest uint64
}

// ImageKind selects the variant held by an Image.
type ImageKind int

const (
	// ImageNone means the task runs as a plain process.
	ImageNone ImageKind = iota
	// ImageBareTag is an image given as a plain tag string.
	ImageBareTag
	// ImageStructured is an image given as a mapping with a tag and runtime options.
	ImageStructured
)

// Image is the tagged union behind the `image` metadata key.
type Image struct {
	Kind ImageKind
	// Tag is used verbatim for bare tags and substituted for structured images.
	Tag string
	// TTY requests an interactive terminal for the container.
	TTY bool
	// Options holds every structured key except tag, in document order.
	Options []ImageOption
}

// BareImage returns a bare-tag image.
func BareImage(tag string) Image {
	return Image{Kind: ImageBareTag, Tag: tag}
}

// Present reports whether the task runs inside a container.
func (i Image) Present() bool {
	return i.Kind != ImageNone
}

// OptionKind selects the variant held by an OptionValue.
type OptionKind int

const (
	// OptionString emits one `--key value` pair.
	OptionString OptionKind = iota
	// OptionBool emits a bare `--key` when true.
	OptionBool
	// OptionList emits one `--key value` pair per element.
	OptionList
)

// OptionValue is a runtime option value: a string, a flag or a list of strings.
type OptionValue struct {
	Kind OptionKind
	Str  string
	Bool bool
	List []string
}

// ImageOption is one key of a structured image.
type ImageOption struct {
	Key   string
	Value OptionValue
}

// StringOption builds a string option.
func StringOption(key, value string) ImageOption {
	return ImageOption{Key: key, Value: OptionValue{Kind: OptionString, Str: value}}
}

// BoolOption builds a flag option.
func BoolOption(key string, value bool) ImageOption {
	return ImageOption{Key: key, Value: OptionValue{Kind: OptionBool, Bool: value}}
}

// ListOption builds a repeated option.
func ListOption(key string, values ...string) ImageOption {
	return ImageOption{Key: key, Value: OptionValue{Kind: OptionList, List: values}}
}
