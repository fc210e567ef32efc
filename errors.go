package packets

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrDuplicateField indicates a schema redeclares an inherited field without Override(true).
	ErrDuplicateField = errors.New("duplicate field declaration")

	// ErrDuplicateRawName indicates two fields serialize to the same wire key.
	ErrDuplicateRawName = errors.New("duplicate raw name")

	// ErrAmbiguousField indicates two bases contribute different fields with the same name.
	ErrAmbiguousField = errors.New("ambiguous inherited field")

	// ErrMissingDefaultField indicates a table schema has no row prototype.
	ErrMissingDefaultField = errors.New("missing default field")

	// ErrInvalidProcessor indicates a value that is neither a Processor nor a *Schema was used as a processor.
	ErrInvalidProcessor = errors.New("invalid processor")

	// ErrMissingProcessor indicates a field was declared without a processor and has nothing to inherit.
	ErrMissingProcessor = errors.New("missing processor")

	// ErrIncompatibleBases indicates bases of different variants were combined.
	ErrIncompatibleBases = errors.New("incompatible bases")

	// ErrInvalidDefault indicates a field default failed processor validation.
	ErrInvalidDefault = errors.New("invalid default")

	// ErrValidation indicates a value violates a processor constraint.
	ErrValidation = errors.New("validation failed")

	// ErrRequired indicates a required field resolved to null in strict mode.
	ErrRequired = errors.New("field required")

	// ErrParse indicates a raw value could not be decoded into a packet field.
	ErrParse = errors.New("parse failed")

	// ErrAccess indicates a dotted path could not be traversed.
	ErrAccess = errors.New("access failed")

	// ErrUnknownField indicates a name that is not part of the field table.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnexpectedField indicates construction received a value for an undeclared field.
	ErrUnexpectedField = errors.New("unexpected field")

	// ErrIndex indicates a sequence index is malformed or out of range.
	ErrIndex = errors.New("index out of range")

	// ErrSchemaMismatch indicates two packets of different schemas were compared.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrCompress indicates a compressor failed to pack data.
	ErrCompress = errors.New("compress failed")

	// ErrDecompress indicates a compressor failed to unpack data.
	ErrDecompress = errors.New("decompress failed")

	// ErrUnsupportedType indicates a Go type cannot be mapped onto a processor.
	ErrUnsupportedType = errors.New("unsupported type")
)

// SchemaError represents a schema definition error.
// These are programmer errors raised by Define before any packet exists.
type SchemaError struct {
	Err    error  // Underlying sentinel error (ErrDuplicateField, etc.)
	Schema string // Schema being defined
	Field  string // Field that triggered the error
	Detail string // Optional extra context
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	if e.Schema != "" {
		fmt.Fprintf(&b, " (schema %s)", e.Schema)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationError is returned by processor checks.
type ValidationError struct {
	Processor string // Processor that rejected the value
	Value     any    // Offending value
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s (value %v)", ErrValidation.Error(), e.Processor, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldError attaches a field name to a sentinel error.
type FieldError struct {
	Err   error
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Err.Error(), e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseError wraps a processor failure with the schema and field it happened in.
// It matches both ErrParse and the underlying cause.
type ParseError struct {
	Schema string
	Field  string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("failed to parse %q: %v", e.Schema, e.Cause)
	}
	return fmt.Sprintf("failed to parse %q: %v", e.Schema+"::"+e.Field, e.Cause)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Cause}
}

// AccessError represents a dotted path traversal failure.
type AccessError struct {
	Err     error  // ErrAccess, ErrUnknownField or ErrIndex
	Path    string // Full path requested
	Segment string // Segment that failed
	Node    any    // Node the segment was applied to
}

func (e *AccessError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("%s: path %q at %q (node %T)", e.Err.Error(), e.Path, e.Segment, e.Node)
	}
	return fmt.Sprintf("%s: path %q at %q", e.Err.Error(), e.Path, e.Segment)
}

func (e *AccessError) Unwrap() []error {
	if e.Err == ErrAccess {
		return []error{ErrAccess}
	}
	return []error{ErrAccess, e.Err}
}

// CodecError represents a marshal/unmarshal or compression error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal, ErrCompress, ErrDecompress)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newSchemaError creates a SchemaError for definition-time failures.
func newSchemaError(sentinel error, schema, field, detail string) error {
	return &SchemaError{
		Err:    sentinel,
		Schema: schema,
		Field:  field,
		Detail: detail,
	}
}

// newValidationError creates a ValidationError with a formatted reason.
func newValidationError(processor string, value any, format string, args ...any) error {
	return &ValidationError{
		Processor: processor,
		Value:     value,
		Reason:    fmt.Sprintf(format, args...),
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
