// Package perr collects the error kinds shared by every layer of the
// codec engine, so callers can errors.Is/errors.As against a stable set
// of sentinels instead of parsing messages.
package perr

import "fmt"

// Kind identifies which of the documented failure modes a Error wraps.
type Kind int

const (
	KindUnknown Kind = iota
	KindDecodingMismatchSize
	KindDecodingMissingExtraData
	KindDecodingMissingExtraDataField
	KindPackFileIndexesNotComplete
	KindPackFileSubHeaderMissing
	KindDecodingUnsupportedVersion
	KindEncodingUnsupportedVersion
	KindDecodingLocNotALocTable
	KindDecodingFontUnsupportedSignature
	KindDataTooBigForContainer
	KindMissingDefinition
	KindRawTableMissingDefinition
	KindAssemblyKitUnsupportedVersion
	KindReadFileFolder
	KindParseBool
	KindTranslatorCouldNotLoadTranslation
)

// Error is the single fallible-operation error type used across the module.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, perr.New(perr.KindX, "")) matches any *Error of KindX
// regardless of message; callers can also use errors.As and check Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

func MismatchSize(expected, got int64) *Error {
	return New(KindDecodingMismatchSize, fmt.Sprintf("size mismatch (expected %d, got %d)", expected, got))
}

func MissingExtraData() *Error {
	return New(KindDecodingMissingExtraData, "missing extra decode data")
}

func MissingExtraDataField(name string) *Error {
	return New(KindDecodingMissingExtraDataField, fmt.Sprintf("missing extra decode data field %q", name))
}

func IndexesNotComplete() *Error {
	return New(KindPackFileIndexesNotComplete, "pack file indexes not complete")
}

func SubHeaderMissing() *Error {
	return New(KindPackFileSubHeaderMissing, "pack file subheader missing")
}

func UnsupportedDecodeVersion(format string, version int) *Error {
	return New(KindDecodingUnsupportedVersion, fmt.Sprintf("unsupported %s decoding version %d", format, version))
}

func UnsupportedEncodeVersion(format string, version int) *Error {
	return New(KindEncodingUnsupportedVersion, fmt.Sprintf("unsupported %s encoding version %d", format, version))
}

func LocNotALocTable() *Error {
	return New(KindDecodingLocNotALocTable, "data is not a valid Loc table")
}

func FontUnsupportedSignature(sig []byte) *Error {
	return New(KindDecodingFontUnsupportedSignature, fmt.Sprintf("unsupported font signature % x", sig))
}

func DataTooBigForContainer(container string, limit, actual uint64, path string) *Error {
	return New(KindDataTooBigForContainer, fmt.Sprintf("%s: file %q is %d bytes, exceeding the %d byte container limit", container, path, actual, limit))
}

func MissingDefinition(table string, version int32) *Error {
	return New(KindMissingDefinition, fmt.Sprintf("no schema definition for table %q version %d", table, version))
}

func RawTableMissingDefinition() *Error {
	return New(KindRawTableMissingDefinition, "raw table has no associated definition")
}

func AssemblyKitUnsupportedVersion(v int) *Error {
	return New(KindAssemblyKitUnsupportedVersion, fmt.Sprintf("unsupported assembly kit version %d", v))
}

func ReadFileFolder(path string) *Error {
	return New(KindReadFileFolder, fmt.Sprintf("could not read file or folder %q", path))
}

func ParseBool(s string) *Error {
	return New(KindParseBool, fmt.Sprintf("could not parse %q as a boolean", s))
}

func TranslatorCouldNotLoadTranslation() *Error {
	return New(KindTranslatorCouldNotLoadTranslation, "could not load translation")
}
